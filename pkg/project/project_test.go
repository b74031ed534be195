package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecortex/pkg/project"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()

	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestDetect_Laravel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "composer.json", `{"require": {"php": "^8.2", "laravel/framework": "^11.0"}}`)
	write(t, root, "package.json", `{"dependencies": {"vue": "^3.4"}, "devDependencies": {"tailwindcss": "^3", "typescript": "^5"}}`)
	write(t, root, "resources/views/welcome.blade.php", "<h1>{{ $title }}</h1>")
	write(t, root, "resources/views/layouts/app.blade.php", "@yield('content')")

	pc, err := project.Detect(root)
	require.NoError(t, err)

	assert.True(t, pc.IsLaravel())
	assert.Equal(t, project.TypeLaravel, pc.Type())
	assert.Equal(t, "^11.0", pc.LaravelVersion)
	assert.Equal(t, []string{"Vue ^3.4", "Tailwind CSS", "TypeScript", "Blade Templates (2 files)"}, pc.FrontendStack)
}

func TestDetect_NotLaravel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "composer.json", `{"require": {"symfony/symfony": "^7"}}`)

	pc, err := project.Detect(root)
	require.NoError(t, err)

	assert.False(t, pc.IsLaravel())
	assert.Empty(t, pc.Type())
	assert.Empty(t, pc.FrontendStack)
}

func TestDetect_BrokenManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "composer.json", `{"require": `)

	pc, err := project.Detect(root)
	require.ErrorIs(t, err, project.ErrManifest)
	require.NotNil(t, pc)
	assert.False(t, pc.IsLaravel())
}

func TestNilContext(t *testing.T) {
	t.Parallel()

	var pc *project.Context

	assert.False(t, pc.IsLaravel())
	assert.Empty(t, pc.Type())
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "laravel composer",
			files: map[string]string{"composer.json": `{"require": {"laravel/framework": "^10"}}`, "package.json": `{}`},
			want:  project.AnalyzerLaravel,
		},
		{
			name:  "node project",
			files: map[string]string{"package.json": `{}`, "app/index.php": "<?php", "resources/x": "", "database/y": ""},
			want:  project.AnalyzerProject,
		},
		{
			name:  "laravel layout without composer",
			files: map[string]string{"app/Models/User.php": "<?php", "resources/views/a.blade.php": "", "database/seeders/S.php": "<?php"},
			want:  project.AnalyzerLaravel,
		},
		{
			name:  "php without layout",
			files: map[string]string{"src/index.php": "<?php"},
			want:  project.AnalyzerProject,
		},
		{
			name:  "php too deep",
			files: map[string]string{"app/a/b/c/d/x.php": "<?php", "resources/r": "", "database/d": ""},
			want:  project.AnalyzerProject,
		},
		{
			name:  "empty",
			files: map[string]string{},
			want:  project.AnalyzerProject,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			for rel, content := range tc.files {
				write(t, root, rel, content)
			}

			assert.Equal(t, tc.want, project.Suggest(root))
		})
	}
}

func TestDetect_LaravelFromSubdirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, root, "composer.json", `{"require": {"laravel/framework": "^11.0"}}`)
	write(t, root, "app/Models/User.php", "<?php class User {}")

	pc, err := project.Detect(filepath.Join(root, "app"))
	require.NoError(t, err)

	assert.True(t, pc.IsLaravel())
	assert.Equal(t, project.FindComposerRoot(root), pc.ComposerRoot)
	assert.Equal(t, filepath.Join(root, "app"), pc.Root)
}
