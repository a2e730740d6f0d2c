package variance

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parksops/ar-api/internal/shared"
)

const testTable = "parks-ar"

func stringValue(t *testing.T, values map[string]types.AttributeValue, name string) string {
	t.Helper()
	attr, ok := values[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "expected string attribute %q", name)
	return attr.Value
}

func TestBuildListQueryPartitionOnly(t *testing.T) {
	input, err := BuildListQuery(testTable, ListInput{ORCS: "0330", Date: "202401"})
	require.NoError(t, err)

	assert.Equal(t, "#pk = :pk", *input.KeyConditionExpression)
	assert.Equal(t, "variance::0330::202401", stringValue(t, input.ExpressionAttributeValues, ":pk"))
	assert.Nil(t, input.FilterExpression)
	assert.Nil(t, input.ExclusiveStartKey)
}

func TestBuildListQuerySubAreaPrefix(t *testing.T) {
	input, err := BuildListQuery(testTable, ListInput{ORCS: "0330", Date: "202401", SubAreaID: "SA1"})
	require.NoError(t, err)

	assert.Equal(t, "#pk = :pk AND begins_with(#sk, :sk)", *input.KeyConditionExpression)
	assert.Equal(t, "SA1::", stringValue(t, input.ExpressionAttributeValues, ":sk"))
}

func TestBuildListQueryExactSortKey(t *testing.T) {
	input, err := BuildListQuery(testTable, ListInput{
		ORCS: "0330", Date: "202401", SubAreaID: "SA1", Activity: "hiking",
	})
	require.NoError(t, err)

	assert.Equal(t, "#pk = :pk AND #sk = :sk", *input.KeyConditionExpression)
	assert.Equal(t, "SA1::hiking", stringValue(t, input.ExpressionAttributeValues, ":sk"))
}

func TestBuildListQueryResolvedFilter(t *testing.T) {
	for _, resolved := range []bool{true, false} {
		input, err := BuildListQuery(testTable, ListInput{
			ORCS: "0330", Date: "202401", Resolved: &resolved,
		})
		require.NoError(t, err)

		require.NotNil(t, input.FilterExpression)
		assert.Equal(t, "#resolved = :resolved", *input.FilterExpression)
		attr, ok := input.ExpressionAttributeValues[":resolved"].(*types.AttributeValueMemberBOOL)
		require.True(t, ok)
		assert.Equal(t, resolved, attr.Value, "explicit false must still filter")
	}
}

func TestBuildListQueryMissingRequired(t *testing.T) {
	_, err := BuildListQuery(testTable, ListInput{Date: "202401"})
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)

	_, err = BuildListQuery(testTable, ListInput{ORCS: "0330"})
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)
}

func TestBuildListQueryActivityWithoutSubArea(t *testing.T) {
	_, err := BuildListQuery(testTable, ListInput{ORCS: "0330", Date: "202401", Activity: "hiking"})
	assert.ErrorIs(t, err, shared.ErrInvalidQueryCombination)
}

func TestBuildListQueryDelimiterInComponent(t *testing.T) {
	_, err := BuildListQuery(testTable, ListInput{ORCS: "03::30", Date: "202401"})
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)
}

func TestCursorRoundTrip(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "variance::0330::202401"},
		"sk": &types.AttributeValueMemberS{Value: "SA1::hiking"},
	}
	cursor, err := EncodeCursor(lastKey)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	input, err := BuildListQuery(testTable, ListInput{ORCS: "0330", Date: "202401", Cursor: cursor})
	require.NoError(t, err)
	assert.Equal(t, "variance::0330::202401", stringValue(t, input.ExclusiveStartKey, "pk"))
	assert.Equal(t, "SA1::hiking", stringValue(t, input.ExclusiveStartKey, "sk"))
}

func TestEncodeCursorEmpty(t *testing.T) {
	cursor, err := EncodeCursor(nil)
	require.NoError(t, err)
	assert.Empty(t, cursor)
}

func TestBuildListQueryBadCursor(t *testing.T) {
	_, err := BuildListQuery(testTable, ListInput{ORCS: "0330", Date: "202401", Cursor: "%%%"})
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)
}
