// Package normalize reconciles the list shapes returned by the aggregator's
// token and chain endpoints into canonical ordered slices.
//
// None of the functions here return errors: unexpected, null or malformed
// input degrades to an empty slice.
package normalize

import (
	"strconv"

	"bridge_gateway/internal/domain/entity"
)

// NormalizeTokens extracts the token list for chainID from any of the known response shapes.
// The first matching shape wins:
//
//	[...]                         bare array
//	{"tokens": [...]}             wrapped array
//	{"tokens": {"137": [...]}}    per-chain map, concatenated when chainID is missing
//	{"a": [...], "b": [...]}      arrays concatenated, filtered by chainId
func NormalizeTokens(raw []byte, chainID int64) []entity.Token {
	root := parse(raw)

	switch root.kind {
	case kindArray:
		return orEmpty(elements[entity.Token](root))
	case kindObject:
	default:
		return []entity.Token{}
	}

	if tokens, ok := root.lookup("tokens"); ok {
		switch tokens.kind {
		case kindArray:
			return orEmpty(elements[entity.Token](tokens))
		case kindObject:
			if forChain, ok := tokens.lookup(strconv.FormatInt(chainID, 10)); ok && forChain.kind == kindArray {
				return orEmpty(elements[entity.Token](forChain))
			}
			return orEmpty(concat(tokens))
		}
	}

	out := []entity.Token{}
	for _, t := range concat(root) {
		if t.ChainID == chainID {
			out = append(out, t)
		}
	}
	return out
}

// concat joins every array-valued member of an object in document order.
func concat(obj node) []entity.Token {
	var out []entity.Token
	for _, f := range obj.fields {
		if v := parse(f.raw); v.kind == kindArray {
			out = append(out, elements[entity.Token](v)...)
		}
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
