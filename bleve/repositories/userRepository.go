package repositories

import (
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

type bleveUserDoc struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func newBleveUserDoc(user models.User) bleveUserDoc {
	var phone string
	if user.Phone != nil {
		phone = *user.Phone
	}
	return bleveUserDoc{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     phone,
		Role:      string(user.Role),
	}
}

func (r *BleveRepository) SearchUsers(queryString string) (*bleve.SearchResult, error) {
	// Combine match, prefix and fuzzy strategies with OR so any of them
	// can produce a hit. Boosts rank exact matches above typo matches.
	booleanQuery := bleve.NewBooleanQuery()

	fieldsToSearch := []string{"first_name", "last_name", "email", "phone"}

	for _, field := range fieldsToSearch {
		fieldMatchQuery := bleve.NewMatchQuery(queryString)
		fieldMatchQuery.SetField(field)
		fieldMatchQuery.SetBoost(3.0)
		booleanQuery.AddShould(fieldMatchQuery)

		fieldPrefixQuery := bleve.NewPrefixQuery(queryString)
		fieldPrefixQuery.SetField(field)
		fieldPrefixQuery.SetBoost(2.0)
		booleanQuery.AddShould(fieldPrefixQuery)

		fieldFuzzyQuery := bleve.NewFuzzyQuery(queryString)
		fieldFuzzyQuery.SetField(field)
		fieldFuzzyQuery.SetFuzziness(1)
		fieldFuzzyQuery.SetBoost(1.0)
		booleanQuery.AddShould(fieldFuzzyQuery)
	}

	booleanQuery.SetMinShould(1)

	return r.indexer.SearchIndex("users", booleanQuery, 20)
}

func (r *BleveRepository) GetUserDocument(id string) (interface{}, error) {
	return r.indexer.GetDocument("users", id)
}

func (r *BleveRepository) IndexSingleUser(user models.User) error {
	err := r.indexer.IndexDocument("users", user.ID.String(), newBleveUserDoc(user))
	if err != nil {
		config.Logger.Error("Failed to index single user into Bleve", zap.Error(err), zap.String("user_id", user.ID.String()))
		return err
	}

	config.Logger.Info("Successfully indexed single user into Bleve", zap.String("user_id", user.ID.String()))
	return nil
}

// UpdateUser deletes the existing user document and re-indexes the updated user.
func (r *BleveRepository) UpdateUser(user models.User) error {
	userID := user.ID.String()

	if err := r.indexer.DeleteDocument("users", userID); err != nil {
		config.Logger.Error("Failed to delete user document for update in Bleve", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	if err := r.IndexSingleUser(user); err != nil {
		config.Logger.Error("Failed to re-index updated user into Bleve", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	config.Logger.Info("Successfully updated (re-indexed) user in Bleve", zap.String("user_id", userID))
	return nil
}

// DeleteUser removes a user document from the Bleve "users" index.
func (r *BleveRepository) DeleteUser(userID string) error {
	err := r.indexer.DeleteDocument("users", userID)
	if err != nil {
		config.Logger.Error("Failed to delete user from Bleve", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	config.Logger.Info("Successfully deleted user from Bleve", zap.String("user_id", userID))
	return nil
}

// IndexExistingUsers indexes a slice of user models into the Bleve "users" index
func (r *BleveRepository) IndexExistingUsers(users []models.User) error {
	docsToBleveIndex := make(map[string]interface{})

	for _, user := range users {
		docsToBleveIndex[user.ID.String()] = newBleveUserDoc(user)
	}

	if len(docsToBleveIndex) > 0 {
		config.Logger.Info("Attempting to bulk index users into Bleve", zap.Int("count", len(docsToBleveIndex)))
		err := r.indexer.BulkIndexDocuments("users", docsToBleveIndex)
		if err != nil {
			config.Logger.Error("Failed to bulk index existing users into Bleve", zap.Error(err))
			return err
		}
		config.Logger.Info("Successfully bulk indexed existing users into Bleve", zap.Int("count", len(docsToBleveIndex)))
	} else {
		config.Logger.Info("No existing users to index into Bleve.")
	}
	return nil
}
