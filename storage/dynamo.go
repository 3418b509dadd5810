package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/langpoll/langpoll/logging"
)

// logPartition keys every log entry so the table can be queried in one go.
const logPartition = "LOG"

type dynamoOption struct {
	Name     string `dynamodbav:"PK"`
	Picks    int    `dynamodbav:"Picks"`
	Position int    `dynamodbav:"Position"`
}

type dynamoLogEntry struct {
	Partition string    `dynamodbav:"PK"`
	ID        string    `dynamodbav:"SK"`
	Option    string    `dynamodbav:"Option"`
	Timestamp time.Time `dynamodbav:"Timestamp"`
}

// DynamoOptionStore is the managed AWS backend, split over an options table
// and a log table.
type DynamoOptionStore struct {
	Client       *dynamodb.Client
	OptionsTable string
	LogTable     string
}

func (s *DynamoOptionStore) ListOptions(ctx context.Context) ([]*Option, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.OptionsTable,
	})
	if err != nil {
		logging.Log.Errorf("STORE: dynamo scan failed: %v", err)
		return nil, err
	}

	var raw []*dynamoOption
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &raw); err != nil {
		logging.Log.Errorf("STORE: failed to unmarshal option list: %v", err)
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Position < raw[j].Position })
	options := make([]*Option, 0, len(raw))
	for _, o := range raw {
		options = append(options, &Option{Name: o.Name, Picks: o.Picks})
	}
	return options, nil
}

func (s *DynamoOptionStore) RecordVote(ctx context.Context, option string) error {
	id, err := newEntryID()
	if err != nil {
		return err
	}
	entry, err := attributevalue.MarshalMap(&dynamoLogEntry{
		Partition: logPartition,
		ID:        id,
		Option:    option,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logging.Log.Errorf("STORE: failed to marshal log entry: %v", err)
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: &s.OptionsTable,
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: option},
					},
					UpdateExpression:    aws.String("ADD Picks :one"),
					ConditionExpression: aws.String("attribute_exists(PK)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":one": &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			{
				Put: &types.Put{
					TableName: &s.LogTable,
					Item:      entry,
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					// unknown option, tolerated as a no-op
					logging.Log.Warnf("STORE: vote for unknown option %s ignored", option)
					return nil
				}
			}
		}
		logging.Log.Errorf("STORE: dynamo vote transaction failed: %v", err)
		return err
	}
	return nil
}

func (s *DynamoOptionStore) History(ctx context.Context) ([]*LogEntry, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.LogTable,
		KeyConditionExpression: aws.String("PK = :log"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":log": &types.AttributeValueMemberS{Value: logPartition},
		},
	})
	if err != nil {
		logging.Log.Errorf("STORE: dynamo history query failed: %v", err)
		return nil, err
	}

	var raw []*dynamoLogEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &raw); err != nil {
		logging.Log.Errorf("STORE: failed to unmarshal log entries: %v", err)
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Timestamp.Before(raw[j].Timestamp) })
	entries := make([]*LogEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, &LogEntry{ID: e.ID, Option: e.Option, Timestamp: e.Timestamp})
	}
	return entries, nil
}

func (s *DynamoOptionStore) ClearAll(ctx context.Context) error {
	var items []types.TransactWriteItem

	options, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            &s.OptionsTable,
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		logging.Log.Errorf("STORE: dynamo scan for clear failed: %v", err)
		return err
	}
	for _, item := range options.Items {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &s.OptionsTable,
				Key:       map[string]types.AttributeValue{"PK": item["PK"]},
				UpdateExpression: aws.String("SET Picks = :zero"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":zero": &types.AttributeValueMemberN{Value: "0"},
				},
			},
		})
	}

	log, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:            &s.LogTable,
		ProjectionExpression: aws.String("PK, SK"),
	})
	if err != nil {
		logging.Log.Errorf("STORE: dynamo log scan for clear failed: %v", err)
		return err
	}
	for _, item := range log.Items {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: &s.LogTable,
				Key: map[string]types.AttributeValue{
					"PK": item["PK"],
					"SK": item["SK"],
				},
			},
		})
	}

	// TransactWriteItems caps at 100 items per call
	for i := 0; i < len(items); i += 100 {
		end := i + 100
		if end > len(items) {
			end = len(items)
		}
		_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items[i:end],
		})
		if err != nil {
			logging.Log.Errorf("STORE: dynamo clear transaction failed: %v", err)
			return err
		}
	}
	return nil
}

func (s *DynamoOptionStore) EnsureOptions(ctx context.Context, names []string) error {
	for i, name := range names {
		item, err := attributevalue.MarshalMap(&dynamoOption{Name: name, Picks: 0, Position: i})
		if err != nil {
			logging.Log.Errorf("STORE: failed to marshal option %s: %v", name, err)
			return err
		}
		_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           &s.OptionsTable,
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		})
		if err != nil {
			var cce *types.ConditionalCheckFailedException
			if errors.As(err, &cce) {
				continue
			}
			logging.Log.Errorf("STORE: failed to seed option %s: %v", name, err)
			return err
		}
	}
	return nil
}
