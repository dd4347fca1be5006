package repository

import (
	"context"
	"errors"
	"fmt"

	"events-api/internal/filter"
	"events-api/internal/model"
	apperrors "events-api/pkg/app_errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoKeyAttribute is the table's partition key.
const DynamoKeyAttribute = "eventId"

// DynamoDBAPI is the subset of *dynamodb.Client the repository calls.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoEventRepositoryImpl struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoEventRepository(client DynamoDBAPI, table string) EventRepository {
	return &DynamoEventRepositoryImpl{
		client: client,
		table:  table,
	}
}

func (r *DynamoEventRepositoryImpl) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		DynamoKeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

func (r *DynamoEventRepositoryImpl) Get(ctx context.Context, id string) (*model.Event, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, classifyDynamoError("get event", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.ErrEventNotFound
	}
	return decodeDynamoItem("get event", out.Item)
}

func (r *DynamoEventRepositoryImpl) Put(ctx context.Context, event *model.Event) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrInternal, "create event", fmt.Errorf("marshal event: %w", err))
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return classifyDynamoError("create event", err)
	}
	return nil
}

func (r *DynamoEventRepositoryImpl) Update(ctx context.Context, id string, mutation model.EventMutation) (*model.Event, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(dynamoUpdate(mutation)).
		WithCondition(expression.AttributeExists(expression.Name(DynamoKeyAttribute))).
		Build()
	if err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, "update event", fmt.Errorf("build update expression: %w", err))
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, classifyDynamoError("update event", err)
	}
	return decodeDynamoItem("update event", out.Attributes)
}

func (r *DynamoEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(DynamoKeyAttribute))).
		Build()
	if err != nil {
		return apperrors.NewStoreError(apperrors.ErrInternal, "delete event", err)
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      r.key(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return classifyDynamoError("delete event", err)
	}
	return nil
}

// Scan pages through the table until limit matches are collected or the
// table is exhausted. DynamoDB applies Limit before the filter, so a single
// page can hold fewer matches than asked for.
func (r *DynamoEventRepositoryImpl) Scan(ctx context.Context, predicate filter.Predicate, limit int) ([]*model.Event, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(int32(limit)),
	}
	if cond, ok, err := dynamoCondition(predicate); err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, "list events", err)
	} else if ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, apperrors.NewStoreError(apperrors.ErrInternal, "list events", fmt.Errorf("build filter expression: %w", err))
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	events := make([]*model.Event, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() && len(events) < limit {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyDynamoError("list events", err)
		}
		for _, item := range page.Items {
			event, err := decodeDynamoItem("list events", item)
			if err != nil {
				return nil, err
			}
			events = append(events, event)
			if len(events) == limit {
				break
			}
		}
	}
	return events, nil
}

func dynamoUpdate(m model.EventMutation) expression.UpdateBuilder {
	update := expression.Set(expression.Name(model.FieldUpdatedAt), expression.Value(m.UpdatedAt))
	if m.Title != nil {
		update = update.Set(expression.Name(model.FieldTitle), expression.Value(*m.Title))
	}
	if m.Description != nil {
		update = update.Set(expression.Name(model.FieldDescription), expression.Value(*m.Description))
	}
	if m.Date != nil {
		update = update.Set(expression.Name(model.FieldDate), expression.Value(*m.Date))
	}
	if m.Location != nil {
		update = update.Set(expression.Name(model.FieldLocation), expression.Value(*m.Location))
	}
	if m.Capacity != nil {
		update = update.Set(expression.Name(model.FieldCapacity), expression.Value(*m.Capacity))
	}
	if m.Organizer != nil {
		update = update.Set(expression.Name(model.FieldOrganizer), expression.Value(*m.Organizer))
	}
	if m.Status != nil {
		update = update.Set(expression.Name(model.FieldStatus), expression.Value(string(*m.Status)))
	}
	return update
}

// dynamoCondition renders the predicate as a filter expression; ok is false
// when the predicate is empty.
func dynamoCondition(p filter.Predicate) (cond expression.ConditionBuilder, ok bool, err error) {
	conds := p.Conditions()
	if len(conds) == 0 {
		return cond, false, nil
	}
	builders := make([]expression.ConditionBuilder, 0, len(conds))
	for _, c := range conds {
		name := expression.Name(c.Attribute)
		switch c.Operator {
		case filter.OpEquals:
			builders = append(builders, name.Equal(expression.Value(c.Value)))
		case filter.OpContains:
			builders = append(builders, name.Contains(c.Value))
		default:
			return cond, false, fmt.Errorf("unsupported filter operator %s", c.Operator)
		}
	}
	if len(builders) == 1 {
		return builders[0], true, nil
	}
	return expression.And(builders[0], builders[1], builders[2:]...), true, nil
}

func decodeDynamoItem(op string, item map[string]types.AttributeValue) (*model.Event, error) {
	var event model.Event
	if err := attributevalue.UnmarshalMap(item, &event); err != nil {
		return nil, apperrors.NewStoreError(apperrors.ErrInternal, op, fmt.Errorf("unmarshal event: %w", err))
	}
	event.CreatedAt = event.CreatedAt.UTC()
	event.UpdatedAt = event.UpdatedAt.UTC()
	return &event, nil
}

// classifyDynamoError maps DynamoDB failures onto the store error kinds.
// A failed existence condition means the item is gone.
func classifyDynamoError(op string, err error) error {
	var (
		condFailed   *types.ConditionalCheckFailedException
		tableMissing *types.ResourceNotFoundException
		throughput   *types.ProvisionedThroughputExceededException
		requestLimit *types.RequestLimitExceeded
		apiErr       smithy.APIError
	)
	switch {
	case errors.As(err, &condFailed):
		return apperrors.ErrEventNotFound
	case errors.As(err, &tableMissing):
		return apperrors.NewStoreError(apperrors.ErrUnavailable, op, err)
	case errors.As(err, &throughput), errors.As(err, &requestLimit):
		return apperrors.NewStoreError(apperrors.ErrThrottled, op, err)
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			return apperrors.NewStoreError(apperrors.ErrUnavailable, op, err)
		case "ThrottlingException", "ProvisionedThroughputExceededException", "RequestLimitExceeded":
			return apperrors.NewStoreError(apperrors.ErrThrottled, op, err)
		case "ValidationException", "SerializationException":
			return apperrors.NewStoreError(apperrors.ErrInvalidArgument, op, err)
		}
	}
	return apperrors.NewStoreError(apperrors.ErrInternal, op, err)
}
