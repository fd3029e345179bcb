package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/couchcryptid/weather-risk-etl/internal/domain"
)

// API is the subset of the DynamoDB client used by the store.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store persists weather risk records in a single table keyed by
// (PK, SK) = (upper-cased location, payload unix timestamp).
// It implements pipeline.RecordPutter.
type Store struct {
	client API
	table  string
}

// NewStore creates a Store writing to the given table.
func NewStore(client API, table string) *Store {
	return &Store{client: client, table: table}
}

// PutItem writes one coerced item. A later write with the same (PK, SK)
// overwrites the earlier one.
func (s *Store) PutItem(ctx context.Context, item map[string]any) error {
	av, err := marshalItem(item)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// QueryRecent returns the records for a location with SK at or after since,
// newest first.
func (s *Store) QueryRecent(ctx context.Context, location string, since int64) ([]domain.WeatherRiskRecord, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND SK >= :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":    &types.AttributeValueMemberS{Value: strings.ToUpper(location)},
			":since": &types.AttributeValueMemberN{Value: strconv.FormatInt(since, 10)},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("query records for %s: %w", location, err)
	}

	records := make([]domain.WeatherRiskRecord, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal records for %s: %w", location, err)
	}
	return records, nil
}
