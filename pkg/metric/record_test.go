package metric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecortex/pkg/metric"
)

func TestMerge_CountsSum(t *testing.T) {
	t.Parallel()

	agg := metric.Initial()
	agg.Merge(metric.Record{metric.KeyFiles: metric.Count(1), metric.KeyLOC: metric.Count(10), "classes": metric.Count(2)})
	agg.Merge(metric.Record{metric.KeyFiles: metric.Count(1), metric.KeyLOC: metric.Count(5)})

	assert.Equal(t, int64(2), agg.Count(metric.KeyFiles))
	assert.Equal(t, int64(15), agg.Count(metric.KeyLOC))
	assert.Equal(t, int64(2), agg.Count("classes"))
}

func TestMerge_StringsUnion(t *testing.T) {
	t.Parallel()

	agg := metric.Record{}
	agg.Merge(metric.Record{"namespaces": metric.NewStrings(`App\Models`)})
	agg.Merge(metric.Record{"namespaces": metric.NewStrings(`App\Models`, `App\Http`)})

	assert.Equal(t, []string{`App\Http`, `App\Models`}, agg.Strings("namespaces").Sorted())
}

func TestMerge_FindingsConcat(t *testing.T) {
	t.Parallel()

	a := metric.Finding{Type: "xss_vulnerability", Severity: metric.SeverityMedium, Count: 1}
	b := metric.Finding{Type: "sql_injection_risk", Severity: metric.SeverityHigh, Count: 2}

	agg := metric.Record{}
	agg.Merge(metric.Record{"securityIssues": metric.Findings{a}})
	agg.Merge(metric.Record{"securityIssues": metric.Findings{b, a}})

	got := agg.Findings("securityIssues")
	require.Len(t, got, 3)
	assert.Equal(t, "xss_vulnerability", got[0].Type)
	assert.Equal(t, "sql_injection_risk", got[1].Type)
	assert.Equal(t, "xss_vulnerability", got[2].Type)
}

func TestMerge_FlagsLastWriteWins(t *testing.T) {
	t.Parallel()

	agg := metric.Record{}
	agg.Merge(metric.Record{"frameworks": metric.Flags{"react": true, "vue": false}})
	agg.Merge(metric.Record{"frameworks": metric.Flags{"react": false, "express": true}})

	assert.Equal(t, metric.Flags{"react": false, "vue": false, "express": true}, agg.Flags("frameworks"))
}

func TestMerge_TextKeepsFirstKnown(t *testing.T) {
	t.Parallel()

	agg := metric.Record{}
	agg.Merge(metric.Record{"packageManager": metric.Text(metric.UnknownText)})
	assert.Equal(t, metric.UnknownText, agg.Text("packageManager"))

	agg.Merge(metric.Record{"packageManager": metric.Text("yarn")})
	assert.Equal(t, "yarn", agg.Text("packageManager"))

	agg.Merge(metric.Record{"packageManager": metric.Text("npm")})
	assert.Equal(t, "yarn", agg.Text("packageManager"))
}

func TestMerge_BoolFirstWriteWins(t *testing.T) {
	t.Parallel()

	agg := metric.Record{}
	agg.Merge(metric.Record{"hasTemplate": metric.Bool(false)})
	agg.Merge(metric.Record{"hasTemplate": metric.Bool(true)})

	assert.False(t, agg.Bool("hasTemplate"))
}

func TestMerge_KindMismatchReplaces(t *testing.T) {
	t.Parallel()

	agg := metric.Record{"x": metric.Text("a")}
	agg.Merge(metric.Record{"x": metric.Count(3)})

	assert.Equal(t, int64(3), agg.Count("x"))
}

func TestMerge_DoesNotAliasIncoming(t *testing.T) {
	t.Parallel()

	in := metric.Record{
		"namespaces": metric.NewStrings("A"),
		"frameworks": metric.Flags{"react": true},
		"issues":     metric.Findings{{Type: "t", Details: []metric.Detail{{Name: "n"}}}},
	}

	agg := metric.Record{}
	agg.Merge(in)

	in.Strings("namespaces")["B"] = struct{}{}
	in.Flags("frameworks")["vue"] = true
	in.Findings("issues")[0].Details[0].Name = "changed"

	assert.False(t, agg.Strings("namespaces").Has("B"))
	assert.NotContains(t, agg.Flags("frameworks"), "vue")
	assert.Equal(t, "n", agg.Findings("issues")[0].Details[0].Name)
}

func TestMerge_EmptyIsIdentity(t *testing.T) {
	t.Parallel()

	agg := metric.Record{
		"classes":    metric.Count(4),
		"namespaces": metric.NewStrings("A", "B"),
		"issues":     metric.Findings{{Type: "t"}},
	}
	want := agg.Clone()

	agg.Merge(metric.Record{})
	agg.Merge(nil)

	assert.Equal(t, want, agg)
}

func TestMerge_AssociativeForCountsSetsLists(t *testing.T) {
	t.Parallel()

	a := metric.Record{"n": metric.Count(1), "s": metric.NewStrings("x"), "l": metric.Findings{{Type: "a"}}}
	b := metric.Record{"n": metric.Count(2), "s": metric.NewStrings("y"), "l": metric.Findings{{Type: "b"}}}
	c := metric.Record{"n": metric.Count(3), "s": metric.NewStrings("x", "z"), "l": metric.Findings{{Type: "c"}}}

	left := metric.Record{}
	left.Merge(a)
	left.Merge(b)
	left.Merge(c)

	bc := b.Clone()
	bc.Merge(c)

	right := a.Clone()
	right.Merge(bc)

	assert.Equal(t, left.Count("n"), right.Count("n"))
	assert.Equal(t, left.Strings("s").Sorted(), right.Strings("s").Sorted())
	assert.Equal(t, left.Findings("l"), right.Findings("l"))
}

func TestMerge_ParseErrorLeavesFilesUnchanged(t *testing.T) {
	t.Parallel()

	agg := metric.Initial()
	agg.Merge(metric.Record{metric.KeyFiles: metric.Count(1), metric.KeyLOC: metric.Count(3)})
	agg.Merge(metric.ParseError())

	assert.Equal(t, int64(1), agg.Count(metric.KeyFiles))
	assert.Equal(t, int64(3), agg.Count(metric.KeyLOC))
}

func TestOverlay_LaterWins(t *testing.T) {
	t.Parallel()

	base := metric.Record{"a": metric.Count(1), "b": metric.Count(2)}
	top := metric.Record{"b": metric.Count(5), "c": metric.Count(6)}

	got := base.Overlay(top)

	assert.Equal(t, int64(1), got.Count("a"))
	assert.Equal(t, int64(5), got.Count("b"))
	assert.Equal(t, int64(6), got.Count("c"))
	assert.Equal(t, int64(2), base.Count("b"))
}

func TestPlain(t *testing.T) {
	t.Parallel()

	r := metric.Record{
		"n":  metric.Count(2),
		"s":  metric.NewStrings("b", "a"),
		"t":  metric.Text("yarn"),
		"ok": metric.Bool(true),
	}

	plain := r.Plain()

	assert.Equal(t, int64(2), plain["n"])
	assert.Equal(t, []string{"a", "b"}, plain["s"])
	assert.Equal(t, "yarn", plain["t"])
	assert.Equal(t, true, plain["ok"])
	assert.Equal(t, []string{"n", "ok", "s", "t"}, r.Keys())
}

func TestParseErrorSentinel(t *testing.T) {
	t.Parallel()

	r := metric.ParseError()

	assert.True(t, r.IsParseError())
	assert.Equal(t, int64(0), r.Count(metric.KeyFiles))
	assert.False(t, metric.Initial().IsParseError())
}
