package variance

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	platformdynamo "github.com/parksops/ar-api/internal/platform/dynamo"
)

// DynamoAPI is the subset of the DynamoDB client the repository uses.
type DynamoAPI interface {
	Query(ctx context.Context, input *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Repository executes variance queries and updates against DynamoDB.
type Repository struct {
	client DynamoAPI
}

// NewRepository constructs a repo.
func NewRepository(client DynamoAPI) *Repository {
	return &Repository{client: client}
}

// Query runs one key-condition scan and unmarshals the page.
func (r *Repository) Query(ctx context.Context, input *dynamodb.QueryInput) ([]Record, map[string]types.AttributeValue, error) {
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, nil, platformdynamo.Classify(err)
	}
	var records []Record
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, nil, fmt.Errorf("variance: unmarshal records: %w", err)
	}
	return records, out.LastEvaluatedKey, nil
}

// UpdateConditional applies one conditional update. Errors pass through the
// shared classifier: a failed existence precondition becomes ErrNotFound.
func (r *Repository) UpdateConditional(ctx context.Context, input *dynamodb.UpdateItemInput) error {
	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		return platformdynamo.Classify(err)
	}
	return nil
}
