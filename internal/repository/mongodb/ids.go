package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idCandidates returns the _id values a string id may be stored as: the raw
// string and, when it parses as one, the ObjectID.
func idCandidates(ids ...string) bson.A {
	out := make(bson.A, 0, len(ids)*2)
	for _, id := range ids {
		out = append(out, id)
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func idFilter(ids ...string) bson.M {
	return bson.M{"_id": bson.M{"$in": idCandidates(ids...)}}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// requestedIndex maps every _id form of ids back to the id as the caller
// spelled it, so ObjectID hex in any case round-trips unchanged.
func requestedIndex(ids []string) map[any]string {
	m := make(map[any]string, len(ids)*2)
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			m[id] = id
		}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			if _, ok := m[oid]; !ok {
				m[oid] = id
			}
		}
	}
	return m
}
