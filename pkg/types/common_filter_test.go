package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateFilters(t *testing.T) {
	allowed := []string{"method", "amount"}

	require.NoError(t, ValidateFilters([]*CommonFilter{
		{Field: "method", Operator: CommonFilterOperatorEq, Values: []any{"Card"}},
		{Field: "amount", Operator: CommonFilterOperatorRange, Values: []any{1, 100}},
	}, allowed))

	require.Error(t, ValidateFilters([]*CommonFilter{{Field: "1=1; drop table x", Operator: CommonFilterOperatorEq}}, allowed))
	require.Error(t, ValidateFilters([]*CommonFilter{{Field: "method", Operator: "like"}}, allowed))
	require.Error(t, ValidateFilters([]*CommonFilter{nil}, allowed))
}
