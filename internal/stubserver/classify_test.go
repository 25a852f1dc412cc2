package stubserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Fertilizante NPK 20-05-20", "INSUMOS AGRÍCOLAS"},
		{"Sementes de MILHO híbrido", "INSUMOS AGRÍCOLAS"},
		{"Óleo diesel S10", "MANUTENÇÃO E OPERAÇÃO"},
		{"Frete rodoviário", "SERVIÇOS OPERACIONAIS"},
		{"Honorários contábeis", "ADMINISTRATIVAS"},
		{"Pagamento de IPVA", "IMPOSTOS E TAXAS"},
		{"Cimento e ferro", "INFRAESTRUTURA E UTILIDADES"},
		{"Consultoria", FallbackCategory},
		{"", FallbackCategory},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.description))
		})
	}
}

func TestClassify_FirstCategoryWins(t *testing.T) {
	// "soja" and "frete" both match; the earlier category is chosen.
	assert.Equal(t, "INSUMOS AGRÍCOLAS", Classify("Frete de soja"))
}
