package stubserver

import "strings"

// FallbackCategory is assigned when no keyword matches.
const FallbackCategory = "Outros"

type category struct {
	Name     string
	Keywords []string
}

// categories is checked in order; the first keyword hit wins.
var categories = []category{
	{"INSUMOS AGRÍCOLAS", []string{"sementes", "fertilizantes", "defensivos agrícolas", "corretivos", "soja", "milho", "npk"}},
	{"MANUTENÇÃO E OPERAÇÃO", []string{"combustíveis", "lubrificantes", "óleo diesel", "gasolina", "óleo lubrificante", "peças", "parafusos", "componentes mecânicos", "manutenção", "pneus", "filtros", "correias", "ferramentas", "utensílios", "diesel", "óleo", "trator"}},
	{"RECURSOS HUMANOS", []string{"mão de obra temporária", "salários", "encargos"}},
	{"SERVIÇOS OPERACIONAIS", []string{"frete", "transporte", "colheita terceirizada", "secagem", "armazenagem", "pulverização", "aplicação", "mercadorias"}},
	{"INFRAESTRUTURA E UTILIDADES", []string{"energia elétrica", "arrendamento de terras", "construções", "reformas", "materiais de construção", "material hidráulico", "cimento", "ferro"}},
	{"ADMINISTRATIVAS", []string{"honorários", "contábeis", "advocatícios", "agronômicos", "despesas bancárias", "financeiras"}},
	{"SEGUROS E PROTEÇÃO", []string{"seguro agrícola", "seguro de ativos", "seguro prestamista", "máquinas", "veículos"}},
	{"IMPOSTOS E TAXAS", []string{"itr", "iptu", "ipva", "incra-ccir"}},
	{"INVESTIMENTOS", []string{"aquisição de máquinas", "implementos", "aquisição de veículos", "aquisição de imóveis", "infraestrutura rural"}},
}

// Classify derives an expense category from an item description.
func Classify(description string) string {
	lower := strings.ToLower(description)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return FallbackCategory
}
