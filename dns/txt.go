package dns

import (
	"context"
	"strings"
)

// Texts returns the TXT strings published at name in answer order, with
// surrounding quote characters stripped.
func Texts(ctx context.Context, resolver Resolver, name string) ([]string, error) {
	result, err := resolver.LookupTXT(ctx, ensureAbsolute(name))
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(result.Records))
	for _, txt := range result.Records {
		texts = append(texts, strings.Trim(txt, `"`))
	}
	return texts, nil
}
