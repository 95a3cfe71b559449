package database

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// generateID returns a 24 character hex ObjectID so that every driver hands out
// identifiers in the same format as the MongoDB driver.
func generateID() string {
	return bson.NewObjectID().Hex()
}


// normalizeID returns the canonical lowercase form stored by the drivers
func normalizeID(id string) (string, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return "", false
	}
	return oid.Hex(), true
}
