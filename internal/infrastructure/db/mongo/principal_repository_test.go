package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance/bff-web/internal/core/domain"
)

const principalsNS = "finance_bff.principals"

func principalBatch(t *testing.T, password string) bson.D {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return bson.D{
		{Key: "username", Value: "usuario_web"},
		{Key: "password_hash", Value: string(hash)},
		{Key: "role", Value: domain.RoleWebClient},
	}
}

func TestPrincipalRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("verify success", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, principalsNS, mtest.FirstBatch, principalBatch(mt.T, "1234")))

		p, err := repo.Verify(context.Background(), "usuario_web", "1234")
		if err != nil {
			mt.Fatalf("Verify: %v", err)
		}
		if p.Username != "usuario_web" || p.Role != domain.RoleWebClient {
			mt.Fatalf("unexpected principal: %+v", p)
		}
	})

	mt.Run("verify wrong password", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, principalsNS, mtest.FirstBatch, principalBatch(mt.T, "1234")))

		if _, err := repo.Verify(context.Background(), "usuario_web", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
			mt.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	mt.Run("verify unknown user", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, principalsNS, mtest.FirstBatch))

		if _, err := repo.Verify(context.Background(), "ghost", "1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
			mt.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	mt.Run("lookup unknown user", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, principalsNS, mtest.FirstBatch))

		if _, err := repo.Lookup(context.Background(), "ghost"); !errors.Is(err, domain.ErrPrincipalNotFound) {
			mt.Fatalf("expected ErrPrincipalNotFound, got %v", err)
		}
	})

	mt.Run("seed upserts", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		if err := repo.Seed(context.Background(), "usuario_web", "1234", domain.RoleWebClient); err != nil {
			mt.Fatalf("Seed: %v", err)
		}
	})

	mt.Run("driver error is not a credential error", func(mt *mtest.T) {
		repo := &PrincipalRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		_, err := repo.Lookup(context.Background(), "usuario_web")
		if err == nil || errors.Is(err, domain.ErrPrincipalNotFound) {
			mt.Fatalf("expected driver error, got %v", err)
		}
	})
}
