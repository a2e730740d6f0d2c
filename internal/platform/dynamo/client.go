// Package dynamo provides the DynamoDB client construction and error
// classification shared by the store-facing repositories.
package dynamo

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewClient builds a DynamoDB client for the given region using the standard
// environment/credentials chain.
func NewClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("platform/dynamo: load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}
