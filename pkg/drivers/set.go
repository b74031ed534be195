package drivers

import (
	"github.com/Sumatoshi-tech/codecortex/pkg/driver"
	"github.com/Sumatoshi-tech/codecortex/pkg/project"
)

// ProjectSet returns the general-purpose drivers. Specializations share
// their parent's layers, so the bases are built once.
func ProjectSet() []driver.Driver {
	base := JSON()
	php := PHP()
	js := JavaScript()
	ts := TypeScript(js)

	return []driver.Driver{
		base,
		PackageJSON(base),
		ComposerJSON(base),
		php,
		Blade(php),
		js,
		ts,
		React(js),
		ReactTypeScript(ts),
		Vue(js),
	}
}

// LaravelSet returns ProjectSet plus the Laravel driver. The Laravel
// driver stays inactive unless the project context is a Laravel root.
func LaravelSet() []driver.Driver {
	return append(ProjectSet(), Laravel(PHP()))
}

// NewRegistry builds a registry bound to pc holding the given set.
func NewRegistry(pc *project.Context, set []driver.Driver) (*driver.Registry, error) {
	reg := driver.NewRegistry(pc)
	if err := reg.Register(set...); err != nil {
		return nil, err
	}

	return reg, nil
}
