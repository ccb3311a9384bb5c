package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	defs := Collections()
	require.Len(t, defs, 2)

	for name, def := range defs {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, def.Indexes)
			schema, ok := def.Validator["$jsonSchema"].(bson.M)
			require.True(t, ok)
			assert.Equal(t, "object", schema["bsonType"])
			assert.NotEmpty(t, schema["required"])
		})
	}
}

func TestValidatorsMarshal(t *testing.T) {
	for name, def := range Collections() {
		_, err := bson.Marshal(def.Validator)
		assert.NoError(t, err, name)
	}
}
