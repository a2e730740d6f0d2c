package variance

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/parksops/ar-api/internal/permissions"
	"github.com/parksops/ar-api/internal/shared"
)

// AuthorizeUpdate decides whether the caller may mutate the record the
// request body identifies. Ownership is checked against the body's own
// orcs/subAreaId pair; the store's existence precondition is what prevents
// writes against a key that does not exist.
func AuthorizeUpdate(perm permissions.Permission, in UpdateInput) error {
	if !perm.IsAuthenticated {
		return fmt.Errorf("variance: update requires authentication: %w", shared.ErrUnauthenticated)
	}
	if perm.IsAdmin {
		return nil
	}
	if perm.HasRole(permissions.SubAreaRole(in.ORCS, in.SubAreaID)) {
		return nil
	}
	return fmt.Errorf("variance: caller does not own %s:%s: %w", in.ORCS, in.SubAreaID, shared.ErrForbidden)
}

// BuildUpdateItem constructs the conditional partial-update descriptor for a
// validated request. The roles allow-list is reset, never merged: a sub-area's
// ownership set is fully determined by its identity. A false resolved value is
// dropped; this path can mark a variance resolved but never reopen it.
func BuildUpdateItem(table string, in UpdateInput) (*dynamodb.UpdateItemInput, error) {
	key, err := VarianceKey(in.ORCS, in.Date, in.SubAreaID, in.Activity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, shared.ErrInvalidRequest)
	}

	roles, err := attributevalue.Marshal([]string{
		permissions.RoleSysAdmin,
		permissions.SubAreaRole(in.ORCS, in.SubAreaID),
	})
	if err != nil {
		return nil, fmt.Errorf("variance: marshal roles: %w", err)
	}

	sets := []string{"#roles = :roles"}
	names := map[string]string{"#roles": "roles"}
	values := map[string]types.AttributeValue{":roles": roles}

	if in.Patch.Notes != nil {
		sets = append(sets, "#notes = :notes")
		names["#notes"] = "notes"
		values[":notes"] = &types.AttributeValueMemberS{Value: *in.Patch.Notes}
	}
	if in.Patch.Resolved != nil && *in.Patch.Resolved {
		sets = append(sets, "#resolved = :resolved")
		names["#resolved"] = "resolved"
		values[":resolved"] = &types.AttributeValueMemberBOOL{Value: true}
	}
	if in.Patch.Fields != nil {
		fields, err := attributevalue.Marshal(in.Patch.Fields)
		if err != nil {
			return nil, fmt.Errorf("variance: marshal fields: %w", err)
		}
		sets = append(sets, "#fields = :fields")
		names["#fields"] = "fields"
		values[":fields"] = fields
	}
	if in.Patch.Bundle != nil {
		sets = append(sets, "#bundle = :bundle")
		names["#bundle"] = "bundle"
		values[":bundle"] = &types.AttributeValueMemberS{Value: *in.Patch.Bundle}
	}

	return &dynamodb.UpdateItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key.PK},
			"sk": &types.AttributeValueMemberS{Value: key.SK},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(pk) AND attribute_exists(sk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}, nil
}
