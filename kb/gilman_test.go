package kb_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/fpsemi/kb"
	"github.com/katalvlaran/fpsemi/presentation"
	"github.com/katalvlaran/fpsemi/wordgraph"
	"github.com/stretchr/testify/require"
)

func TestGilmanGraph_UnaryFinite(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "a", "aa=a"))
	require.NoError(t, err)

	g, err := eng.GilmanGraph(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumberOfNodes(), "nodes are the proper prefixes of the lhs aa")
	require.True(t, g.IsAcyclic())
	require.False(t, eng.Provisional())
	require.ElementsMatch(t, []string{"", "a"}, eng.GilmanGraphNodeLabels())

	n, err := eng.NumberOfClasses(ctx)
	require.NoError(t, err)
	require.Equal(t, wordgraph.Cardinality(1), n)
}

// With rule 00→0 every word in 1* stays irreducible, so the graph has
// a loop at the root and the semigroup is infinite.
func TestGilmanGraph_BinaryInfinite(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustPresent(t, "01", [2]string{"00", "0"}))
	require.NoError(t, err)

	g, err := eng.GilmanGraph(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumberOfNodes())
	require.False(t, g.IsAcyclic())

	n, err := eng.NumberOfClasses(ctx)
	require.NoError(t, err)
	require.Equal(t, wordgraph.Infinity, n)
}

func TestNumberOfClasses_CollapsingPresentation(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^2=b, (ab)^2=a"))
	require.NoError(t, err)

	n, err := eng.NumberOfClasses(ctx)
	require.NoError(t, err)
	require.Equal(t, wordgraph.Cardinality(3), n, "normal forms are a, b, ba")
}

func TestNumberOfClasses_SizeFour(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"))
	require.NoError(t, err)

	n, err := eng.NumberOfClasses(ctx)
	require.NoError(t, err)
	require.Equal(t, wordgraph.Cardinality(4), n)
}

func TestNumberOfClasses_CountsEmptyWordForMonoids(t *testing.T) {
	ctx := context.Background()
	p, err := presentation.New("a", presentation.WithEmptyWord())
	require.NoError(t, err)
	require.NoError(t, p.AddRule("aa", "a"))

	eng, err := kb.New(kb.TwoSided, p)
	require.NoError(t, err)
	n, err := eng.NumberOfClasses(ctx)
	require.NoError(t, err)
	require.Equal(t, wordgraph.Cardinality(2), n, "classes of ε and a")
}

func TestNumberOfClasses_UndecidedOnBoundedRun(t *testing.T) {
	eng, err := kb.New(kb.TwoSided,
		mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
		kb.WithMaxRules(2))
	require.NoError(t, err)

	_, err = eng.NumberOfClasses(context.Background())
	require.ErrorIs(t, err, kb.ErrUndecided)
}

func TestNormalForms_Finite(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"))
	require.NoError(t, err)

	var forms []string
	require.NoError(t, eng.NormalForms(ctx, func(w string) bool {
		forms = append(forms, w)
		return true
	}))
	require.Equal(t, []string{"a", "b", "aa", "ab"}, forms)
}

func TestNormalForms_InfiniteStopsViaVisit(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustPresent(t, "01", [2]string{"00", "0"}))
	require.NoError(t, err)

	var forms []string
	require.NoError(t, eng.NormalForms(ctx, func(w string) bool {
		forms = append(forms, w)
		return len(forms) < 5
	}))
	require.Equal(t, []string{"0", "1", "01", "10", "11"}, forms)

	// Enumerated words really are irreducible.
	for _, w := range forms {
		got, rerr := eng.Reduce(ctx, w)
		require.NoError(t, rerr)
		require.Equal(t, w, got)
	}
}

func TestNormalForms_EmptyWordFirstForMonoids(t *testing.T) {
	ctx := context.Background()
	p, err := presentation.New("a", presentation.WithEmptyWord())
	require.NoError(t, err)
	require.NoError(t, p.AddRule("aa", "a"))

	eng, err := kb.New(kb.TwoSided, p)
	require.NoError(t, err)
	var forms []string
	require.NoError(t, eng.NormalForms(ctx, func(w string) bool {
		forms = append(forms, w)
		return true
	}))
	require.Equal(t, []string{"", "a"}, forms)
}

func TestGilmanGraph_CachedUntilRulesChange(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "a", "aa=a"))
	require.NoError(t, err)

	g1, err := eng.GilmanGraph(ctx)
	require.NoError(t, err)
	g2, err := eng.GilmanGraph(ctx)
	require.NoError(t, err)
	require.Same(t, g1, g2, "second call must hit the cache")
}
