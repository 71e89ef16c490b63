// Package dynamodb implements the application repositories on DynamoDB
// with a single-table layout. Notes live under PK=USER#<userID>,
// SK=NOTE#<noteID>, with a GSI keyed on creation time for listing.
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"mindgraph-backend/application/ports"
	"mindgraph-backend/domain/notes"
	pkgerrors "mindgraph-backend/pkg/errors"
)

// Client is the subset of the DynamoDB API the repository uses.
// Defined here so tests can substitute a fake.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// NoteRepository stores notes in DynamoDB
type NoteRepository struct {
	client    Client
	tableName string
	indexName string
	logger    *zap.Logger
}

var _ ports.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a DynamoDB-backed note repository. indexName
// names the creation-time GSI; when empty, listing falls back to the base
// table in note ID order.
func NewNoteRepository(client Client, tableName, indexName string, logger *zap.Logger) *NoteRepository {
	return &NoteRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// noteItem is the persisted shape of a note
type noteItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	NoteID     string   `dynamodbav:"NoteID"`
	UserID     string   `dynamodbav:"UserID"`
	Title      string   `dynamodbav:"Title"`
	Category   string   `dynamodbav:"Category,omitempty"`
	Tags       []string `dynamodbav:"Tags,omitempty"`
	Color      string   `dynamodbav:"Color"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
	Version    int      `dynamodbav:"Version"`
	GSI1PK     string   `dynamodbav:"GSI1PK"`
	GSI1SK     string   `dynamodbav:"GSI1SK"`
}

func userPK(userID string) string { return fmt.Sprintf("USER#%s", userID) }
func noteSK(noteID string) string { return fmt.Sprintf("NOTE#%s", noteID) }

// createdSK keys the listing GSI. RFC3339 UTC timestamps sort
// lexicographically in creation order; the note ID breaks ties.
func createdSK(createdAt, noteID string) string {
	return fmt.Sprintf("CREATED#%s#%s", createdAt, noteID)
}

func noteKey(userID, noteID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
		"SK": &types.AttributeValueMemberS{Value: noteSK(noteID)},
	}
}

// Save writes the note, rejecting stale versions. The condition allows
// brand new items and items whose stored version is exactly one behind.
func (r *NoteRepository) Save(ctx context.Context, note *notes.Note) error {
	if note == nil {
		return pkgerrors.NewValidationError("note cannot be nil")
	}

	item, err := attributevalue.MarshalMap(toNoteItem(note))
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal note")
	}

	condition := expression.Name("PK").AttributeNotExists().
		Or(expression.Name("Version").Equal(expression.Value(note.Version - 1)))
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build save condition")
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 &r.tableName,
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewConflictError("note was modified concurrently")
		}
		return r.wrapAWSError(err, "failed to save note")
	}

	r.logger.Debug("Note saved",
		zap.String("noteId", note.ID),
		zap.String("userId", note.UserID),
		zap.Int("version", note.Version),
	)
	return nil
}

// FindByID loads a single note
func (r *NoteRepository) FindByID(ctx context.Context, userID, noteID string) (*notes.Note, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key:       noteKey(userID, noteID),
	})
	if err != nil {
		return nil, r.wrapAWSError(err, "failed to get note")
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("note not found")
	}

	var item noteItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal note")
	}
	return fromNoteItem(&item)
}

// FindByUser returns all notes belonging to a user, paging through
// results. With the GSI configured, items come back in creation order;
// the base-table fallback yields note ID order.
func (r *NoteRepository) FindByUser(ctx context.Context, userID string) ([]*notes.Note, error) {
	keyExpr := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("NOTE#"))
	var indexName *string
	if r.indexName != "" {
		keyExpr = expression.Key("GSI1PK").Equal(expression.Value(userPK(userID))).
			And(expression.Key("GSI1SK").BeginsWith("CREATED#"))
		indexName = &r.indexName
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyExpr).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build query")
	}

	var result []*notes.Note
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &r.tableName,
			IndexName:                 indexName,
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, r.wrapAWSError(err, "failed to query notes")
		}

		for _, raw := range out.Items {
			var item noteItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unparseable note item", zap.Error(err))
				continue
			}
			note, err := fromNoteItem(&item)
			if err != nil {
				r.logger.Warn("Skipping invalid note item",
					zap.String("noteId", item.NoteID),
					zap.Error(err),
				)
				continue
			}
			result = append(result, note)
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return result, nil
}

// Delete removes a note, failing if it does not exist
func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	condition := expression.Name("PK").AttributeExists()
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build delete condition")
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 &r.tableName,
		Key:                       noteKey(userID, noteID),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("note not found")
		}
		return r.wrapAWSError(err, "failed to delete note")
	}
	return nil
}

func (r *NoteRepository) wrapAWSError(err error, msg string) error {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
			return pkgerrors.NewUnavailableError(msg + ": throttled")
		case "ResourceNotFoundException":
			return pkgerrors.NewInternalError(msg + ": table not found")
		}
	}
	return pkgerrors.Wrap(err, msg)
}

func toNoteItem(note *notes.Note) *noteItem {
	createdAt := note.CreatedAt.Format(timeFormat)
	return &noteItem{
		PK:         userPK(note.UserID),
		SK:         noteSK(note.ID),
		GSI1PK:     userPK(note.UserID),
		GSI1SK:     createdSK(createdAt, note.ID),
		EntityType: "NOTE",
		NoteID:     note.ID,
		UserID:     note.UserID,
		Title:      note.Title,
		Category:   note.Category,
		Tags:       note.Tags,
		Color:      string(note.Color),
		CreatedAt:  createdAt,
		UpdatedAt:  note.UpdatedAt.Format(timeFormat),
		Version:    note.Version,
	}
}
