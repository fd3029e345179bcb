package dynamo

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// toAttributeValue converts a coerced item value into a DynamoDB attribute.
// Floats must already have been rewritten as decimals; a raw float reaching
// this point is a bug in the caller, not something to silently round.
func toAttributeValue(v any) (types.AttributeValue, error) {
	switch val := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case string:
		return &types.AttributeValueMemberS{Value: val}, nil
	case bool:
		return &types.AttributeValueMemberBOOL{Value: val}, nil
	case int:
		return &types.AttributeValueMemberN{Value: strconv.Itoa(val)}, nil
	case int64:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(val, 10)}, nil
	case decimal.Decimal:
		return &types.AttributeValueMemberN{Value: val.String()}, nil
	case map[string]any:
		m := make(map[string]types.AttributeValue, len(val))
		for k, inner := range val {
			av, err := toAttributeValue(inner)
			if err != nil {
				return nil, err
			}
			m[k] = av
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case []any:
		l := make([]types.AttributeValue, 0, len(val))
		for _, inner := range val {
			av, err := toAttributeValue(inner)
			if err != nil {
				return nil, err
			}
			l = append(l, av)
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	default:
		return nil, fmt.Errorf("uncoerced value of type %T", v)
	}
}

// marshalItem converts a coerced item map into DynamoDB attribute values.
func marshalItem(item map[string]any) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		av, err := toAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("marshal attribute %q: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}
