package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// PutItemAPI is the subset of the DynamoDB client used to append records
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoAppender stores each record as a new item keyed by a random id
type DynamoAppender struct {
	client    PutItemAPI
	tableName string
	now       func() time.Time
}

// NewDynamoAppender creates a new DynamoDB appender
func NewDynamoAppender(client PutItemAPI, tableName string) *DynamoAppender {
	return &DynamoAppender{
		client:    client,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AppendRow puts one item; an existing id is never overwritten
func (d *DynamoAppender) AppendRow(ctx context.Context, row Row) (Ack, error) {
	id := uuid.New().String()

	item := map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: id}, // Partition Key
		"createdAt": &types.AttributeValueMemberS{Value: d.now().Format(time.RFC3339)},
	}
	for i, col := range Columns {
		item[col] = &types.AttributeValueMemberS{Value: row[i]}
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(d.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return Ack{}, fmt.Errorf("failed to put item: %w", err)
	}
	return Ack{Ref: id}, nil
}
