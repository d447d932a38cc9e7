package repositories

import (
	"testing"

	"printstudio/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProductQuery(t *testing.T) {
	assert.Equal(t, bson.M{}, productQuery(models.ProductFilter{}))

	q := productQuery(models.ProductFilter{Search: "a.b", CategoryID: "c1", ActiveOnly: true})
	assert.Equal(t, true, q["is_active"])
	assert.Equal(t, "c1", q["category_ids"])
	pattern := bson.M{"$regex": `a\.b`, "$options": "i"}
	assert.Equal(t, bson.A{bson.M{"name": pattern}, bson.M{"description": pattern}}, q["$or"])
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%maqueta%", containsPattern("MAQUETA"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_OFF"))
}

func TestWithoutID(t *testing.T) {
	assert.Equal(t, []string{"b", "c"}, withoutID([]string{"a", "b", "a", "c"}, "a"))
	assert.Equal(t, []string{}, withoutID(nil, "a"))
}
