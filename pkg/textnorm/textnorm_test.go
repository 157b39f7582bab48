package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow-api/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe organico", textnorm.Fold("  Café   Orgánico "))
	assert.Equal(t, "pao de acucar", textnorm.Fold("Pão de Açúcar"))
	assert.Equal(t, "", textnorm.Fold("   "))
}

func TestSearchKey_OmiteVacios(t *testing.T) {
	assert.Equal(t, "tornillo sku-01 acero", textnorm.SearchKey("Tornillo", "", "SKU-01", "Acero"))
}

func TestContains(t *testing.T) {
	assert.True(t, textnorm.Contains("Martillo de Carpintería", "carpinteria"))
	assert.False(t, textnorm.Contains("Martillo", "destornillador"))
}
