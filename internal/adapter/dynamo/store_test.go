package dynamo

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	putInput   *dynamodb.PutItemInput
	putErr     error
	queryInput *dynamodb.QueryInput
	queryItems []map[string]types.AttributeValue
	queryErr   error
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInput = params
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &dynamodb.QueryOutput{Items: f.queryItems}, nil
}

func TestToAttributeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want types.AttributeValue
	}{
		{"string", "EDINBURGH", &types.AttributeValueMemberS{Value: "EDINBURGH"}},
		{"bool", true, &types.AttributeValueMemberBOOL{Value: true}},
		{"int", 61, &types.AttributeValueMemberN{Value: "61"}},
		{"int64", int64(1732905600), &types.AttributeValueMemberN{Value: "1732905600"}},
		{"decimal", decimal.NewFromFloat(0.1), &types.AttributeValueMemberN{Value: "0.1"}},
		{"nil", nil, &types.AttributeValueMemberNULL{Value: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toAttributeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToAttributeValue_RejectsRawFloat(t *testing.T) {
	_, err := toAttributeValue(0.1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uncoerced value of type float64")
}

func TestToAttributeValue_Nested(t *testing.T) {
	got, err := toAttributeValue(map[string]any{
		"scores": []any{decimal.NewFromFloat(0.4), decimal.NewFromFloat(0.3)},
	})
	require.NoError(t, err)

	m, ok := got.(*types.AttributeValueMemberM)
	require.True(t, ok)
	l, ok := m.Value["scores"].(*types.AttributeValueMemberL)
	require.True(t, ok)
	require.Len(t, l.Value, 2)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "0.4"}, l.Value[0])
}

func TestStore_PutItem(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewStore(fake, "WeatherRisk")

	err := store.PutItem(context.Background(), map[string]any{
		"PK":         "EDINBURGH",
		"SK":         int64(1732905600),
		"risk_score": decimal.NewFromFloat(0.37),
	})
	require.NoError(t, err)

	require.NotNil(t, fake.putInput)
	assert.Equal(t, "WeatherRisk", *fake.putInput.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "EDINBURGH"}, fake.putInput.Item["PK"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1732905600"}, fake.putInput.Item["SK"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "0.37"}, fake.putInput.Item["risk_score"])
}

func TestStore_PutItem_UncoercedFloatFails(t *testing.T) {
	fake := &fakeDynamo{}
	store := NewStore(fake, "WeatherRisk")

	err := store.PutItem(context.Background(), map[string]any{"risk_score": 0.37})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `marshal attribute "risk_score"`)
	assert.Nil(t, fake.putInput, "nothing should be written when marshalling fails")
}

func TestStore_QueryRecent(t *testing.T) {
	fake := &fakeDynamo{
		queryItems: []map[string]types.AttributeValue{
			{
				"PK":         &types.AttributeValueMemberS{Value: "EDINBURGH"},
				"SK":         &types.AttributeValueMemberN{Value: "1732992000"},
				"location":   &types.AttributeValueMemberS{Value: "Edinburgh"},
				"risk_score": &types.AttributeValueMemberN{Value: "0.37"},
				"risk_level": &types.AttributeValueMemberS{Value: "MEDIUM"},
			},
		},
	}
	store := NewStore(fake, "WeatherRisk")

	records, err := store.QueryRecent(context.Background(), "edinburgh", 1732905600)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "EDINBURGH", records[0].PK)
	assert.Equal(t, int64(1732992000), records[0].SK)
	assert.Equal(t, 0.37, records[0].RiskScore)

	require.NotNil(t, fake.queryInput)
	assert.Equal(t, "PK = :pk AND SK >= :since", *fake.queryInput.KeyConditionExpression)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "EDINBURGH"},
		fake.queryInput.ExpressionAttributeValues[":pk"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1732905600"},
		fake.queryInput.ExpressionAttributeValues[":since"])
	assert.False(t, *fake.queryInput.ScanIndexForward, "newest records come first")
}

func TestStore_QueryRecent_Error(t *testing.T) {
	fake := &fakeDynamo{queryErr: errors.New("throttled")}
	store := NewStore(fake, "WeatherRisk")

	_, err := store.QueryRecent(context.Background(), "edinburgh", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query records for edinburgh")
}
