package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// newSampleGlossary returns a glossary loaded with the built-in dataset.
func newSampleGlossary(t *testing.T) services.GlossaryService {
	t.Helper()
	svc := services.NewGlossaryService(repositories.NewMetricRepository(), taxonomy.Default(), zap.NewNop())
	_, err := svc.LoadSample(context.Background())
	require.NoError(t, err)
	return svc
}

func TestGlossaryFromContext(t *testing.T) {
	_, ok := GlossaryFromContext(context.Background())
	assert.False(t, ok)

	glossary := newSampleGlossary(t)
	got, ok := GlossaryFromContext(WithGlossary(context.Background(), glossary))
	require.True(t, ok)
	assert.Same(t, glossary, got)
}

func TestRequireGlossary_Unbound(t *testing.T) {
	_, err := requireGlossary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no glossary session")
}
