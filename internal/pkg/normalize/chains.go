package normalize

import "bridge_gateway/internal/domain/entity"

// NormalizeChains accepts a bare chain array or {"chains": [...]}.
func NormalizeChains(raw []byte) []entity.Chain {
	root := parse(raw)

	switch root.kind {
	case kindArray:
		return orEmpty(elements[entity.Chain](root))
	case kindObject:
		if chains, ok := root.lookup("chains"); ok && chains.kind == kindArray {
			return orEmpty(elements[entity.Chain](chains))
		}
	}
	return []entity.Chain{}
}
