package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// PutRunStatus applies a terminal status to the run.
func (s *DynamoDBStore) PutRunStatus(ctx context.Context, runID string, status types.TerminalStatus) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":     &ddbtypes.AttributeValueMemberS{Value: runPK(runID)},
			"SK":     &ddbtypes.AttributeValueMemberS{Value: statusSK()},
			"status": &ddbtypes.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return fmt.Errorf("putting run status: %w", err)
	}
	return nil
}

// GetRunStatus returns the run's terminal status, or ErrNotFound.
func (s *DynamoDBStore) GetRunStatus(ctx context.Context, runID string) (types.TerminalStatus, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: runPK(runID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: statusSK()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("getting run status: %w", err)
	}
	if out.Item == nil {
		return "", store.ErrNotFound
	}
	attr, ok := out.Item["status"].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("run %s has a malformed status attribute", runID)
	}
	return types.TerminalStatus(attr.Value), nil
}
