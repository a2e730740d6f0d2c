package variance

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/parksops/ar-api/internal/shared"
)

// BuildListQuery translates a validated read request into the store query
// descriptor. The partition key is always an exact match on the orcs/date
// partition; the sort-key condition narrows to one sub-area (prefix) or one
// sub-area activity (exact) when those parameters are present.
//
// The resolved filter is applied by the store after the key-condition scan:
// it reduces the result count, not the read cost.
func BuildListQuery(table string, in ListInput) (*dynamodb.QueryInput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	keyCondition := "#pk = :pk"
	names := map[string]string{"#pk": "pk"}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: variancePK(in.ORCS, in.Date)},
	}

	switch {
	case in.SubAreaID != "" && in.Activity != "":
		keyCondition += " AND #sk = :sk"
		names["#sk"] = "sk"
		values[":sk"] = &types.AttributeValueMemberS{Value: in.SubAreaID + keyDelim + in.Activity}
	case in.SubAreaID != "":
		keyCondition += " AND begins_with(#sk, :sk)"
		names["#sk"] = "sk"
		values[":sk"] = &types.AttributeValueMemberS{Value: varianceSKPrefix(in.SubAreaID)}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    aws.String(keyCondition),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	if in.Resolved != nil {
		input.FilterExpression = aws.String("#resolved = :resolved")
		names["#resolved"] = "resolved"
		values[":resolved"] = &types.AttributeValueMemberBOOL{Value: *in.Resolved}
	}

	if in.Cursor != "" {
		startKey, err := decodeCursor(in.Cursor)
		if err != nil {
			return nil, err
		}
		input.ExclusiveStartKey = startKey
	}

	return input, nil
}

// cursorPayload is the transport form of a store continuation key. Variance
// keys are string-typed, so the payload is a flat string map.
type cursorPayload map[string]string

// EncodeCursor renders a store continuation key as an opaque token for the
// caller. A nil key yields the empty token (no further pages).
func EncodeCursor(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}
	payload := cursorPayload{}
	for name, attr := range lastKey {
		s, ok := attr.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("variance: unsupported cursor attribute %q", name)
		}
		payload[name] = s.Value
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("variance: encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("variance: bad cursor: %w", shared.ErrInvalidRequest)
	}
	payload := cursorPayload{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("variance: bad cursor: %w", shared.ErrInvalidRequest)
	}
	startKey := make(map[string]types.AttributeValue, len(payload))
	for name, value := range payload {
		startKey[name] = &types.AttributeValueMemberS{Value: value}
	}
	return startKey, nil
}
