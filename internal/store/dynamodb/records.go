package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// recordItem is the table shape of one cause record.
type recordItem struct {
	PK         string                `dynamodbav:"PK"`
	SK         string                `dynamodbav:"SK"`
	ID         string                `dynamodbav:"id"`
	RecordedAt time.Time             `dynamodbav:"recorded_at"`
	Causes     []types.RecordedCause `dynamodbav:"causes"`
}

// AppendCauseRecord writes one record into the run's partition.
func (s *DynamoDBStore) AppendCauseRecord(ctx context.Context, runID string, rec types.CauseRecord) error {
	item, err := attributevalue.MarshalMap(recordItem{
		PK:         runPK(runID),
		SK:         recordSK(rec.RecordedAt),
		ID:         rec.ID,
		RecordedAt: rec.RecordedAt,
		Causes:     rec.Causes,
	})
	if err != nil {
		return fmt.Errorf("marshaling cause record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("appending cause record: %w", err)
	}
	return nil
}

// ListCauseRecords returns the run's records in append order.
func (s *DynamoDBStore) ListCauseRecords(ctx context.Context, runID string) ([]types.CauseRecord, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk":     &ddbtypes.AttributeValueMemberS{Value: runPK(runID)},
			":prefix": &ddbtypes.AttributeValueMemberS{Value: prefixRecord},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("listing cause records: %w", err)
	}

	var items []recordItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshaling cause records: %w", err)
	}

	records := make([]types.CauseRecord, 0, len(items))
	for _, item := range items {
		records = append(records, types.CauseRecord{
			ID:         item.ID,
			RecordedAt: item.RecordedAt,
			Causes:     item.Causes,
		})
	}
	return records, nil
}
