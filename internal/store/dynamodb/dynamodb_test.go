package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// mockDDB is a minimal mock of the DDBAPI interface for unit testing.
type mockDDB struct {
	putItemFn       func(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	getItemFn       func(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	queryFn         func(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	deleteItemFn    func(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	describeTableFn func(ctx context.Context, input *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	createTableFn   func(ctx context.Context, input *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

func (m *mockDDB) PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFn != nil {
		return m.putItemFn(ctx, input, opts...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDB) GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFn != nil {
		return m.getItemFn(ctx, input, opts...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDDB) Query(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, input, opts...)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (m *mockDDB) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, input, opts...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDB) DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.describeTableFn != nil {
		return m.describeTableFn(ctx, input, opts...)
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (m *mockDDB) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if m.createTableFn != nil {
		return m.createTableFn(ctx, input, opts...)
	}
	return &dynamodb.CreateTableOutput{}, nil
}

func TestAppendCauseRecordItemShape(t *testing.T) {
	var captured *dynamodb.PutItemInput
	mock := &mockDDB{
		putItemFn: func(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = input
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	s := NewFromClient(mock, "causeway-test")

	rec := types.CauseRecord{
		ID:         "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		RecordedAt: time.Now().UTC(),
		Causes:     []types.RecordedCause{{Kind: "timeout", Summary: "Timed out after 5m0s"}},
	}
	require.NoError(t, s.AppendCauseRecord(context.Background(), "run-1", rec))

	require.NotNil(t, captured)
	assert.Equal(t, "causeway-test", *captured.TableName)

	pk := captured.Item["PK"].(*ddbtypes.AttributeValueMemberS)
	assert.Equal(t, "RUN#run-1", pk.Value)

	sk := captured.Item["SK"].(*ddbtypes.AttributeValueMemberS)
	assert.True(t, strings.HasPrefix(sk.Value, "RECORD#"))

	id := captured.Item["id"].(*ddbtypes.AttributeValueMemberS)
	assert.Equal(t, rec.ID, id.Value)
}

func TestListCauseRecordsQueriesRunPartition(t *testing.T) {
	mock := &mockDDB{
		queryFn: func(_ context.Context, input *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			pk := input.ExpressionAttributeValues[":pk"].(*ddbtypes.AttributeValueMemberS)
			assert.Equal(t, "RUN#run-2", pk.Value)
			return &dynamodb.QueryOutput{
				Items: []map[string]ddbtypes.AttributeValue{
					{
						"PK":           &ddbtypes.AttributeValueMemberS{Value: "RUN#run-2"},
						"SK":           &ddbtypes.AttributeValueMemberS{Value: "RECORD#0000000000001#abcd1234"},
						"id":           &ddbtypes.AttributeValueMemberS{Value: "rec-1"},
						"recorded_at":  &ddbtypes.AttributeValueMemberS{Value: "2026-08-01T10:00:00Z"},
						"causes": &ddbtypes.AttributeValueMemberL{Value: []ddbtypes.AttributeValue{
							&ddbtypes.AttributeValueMemberM{Value: map[string]ddbtypes.AttributeValue{
								"Kind":    &ddbtypes.AttributeValueMemberS{Value: "user-interruption"},
								"Summary": &ddbtypes.AttributeValueMemberS{Value: "Aborted by alice"},
							}},
						}},
					},
				},
			}, nil
		},
	}
	s := NewFromClient(mock, "causeway-test")

	recs, err := s.ListCauseRecords(context.Background(), "run-2")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)
	assert.Equal(t, []types.RecordedCause{{Kind: "user-interruption", Summary: "Aborted by alice"}}, recs[0].Causes)
}

func TestGetRunStatusNotFound(t *testing.T) {
	s := NewFromClient(&mockDDB{}, "causeway-test")

	_, err := s.GetRunStatus(context.Background(), "run-3")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetRunStatusRoundTrip(t *testing.T) {
	mock := &mockDDB{
		getItemFn: func(_ context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{
				Item: map[string]ddbtypes.AttributeValue{
					"status": &ddbtypes.AttributeValueMemberS{Value: "ABORTED"},
				},
			}, nil
		},
	}
	s := NewFromClient(mock, "causeway-test")

	got, err := s.GetRunStatus(context.Background(), "run-4")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAborted, got)
}

func TestAcquireLockConditionalFailureMeansHeld(t *testing.T) {
	mock := &mockDDB{
		putItemFn: func(_ context.Context, _ *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, &ddbtypes.ConditionalCheckFailedException{}
		},
	}
	s := NewFromClient(mock, "causeway-test")

	ok, err := s.AcquireLock(context.Background(), "run-5", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAcquireLockPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("throttled")
	mock := &mockDDB{
		putItemFn: func(_ context.Context, _ *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, boom
		},
	}
	s := NewFromClient(mock, "causeway-test")

	_, err := s.AcquireLock(context.Background(), "run-6", time.Minute)
	assert.ErrorIs(t, err, boom)
}
