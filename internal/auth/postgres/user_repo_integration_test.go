// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

//go:build integration

package postgres_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/oklog/ulid/v2"

	"github.com/credgate/credgate/internal/auth"
	"github.com/credgate/credgate/internal/auth/postgres"
	"github.com/credgate/credgate/pkg/errutil"
)

var _ = Describe("UserRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.UserRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = postgres.NewUserRepository(testPool)
		_, err := testPool.Exec(ctx, `DELETE FROM users`)
		Expect(err).NotTo(HaveOccurred())
	})

	createUser := func(email, hash string) *auth.User {
		user, err := auth.NewUser(email, hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, user)).To(Succeed())
		return user
	}

	It("loads a created user by email ignoring case", func() {
		created := createUser("valid@mail.com", "hashed_password")

		loaded, err := repo.LoadByEmail(ctx, "VALID@mail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).NotTo(BeNil())
		Expect(loaded.ID).To(Equal(created.ID))
		Expect(loaded.PasswordHash).To(Equal("hashed_password"))
	})

	It("returns no user for an unknown email", func() {
		loaded, err := repo.LoadByEmail(ctx, "invalid@mail.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeNil())
	})

	It("rejects a duplicate email", func() {
		createUser("valid@mail.com", "h1")

		dup, err := auth.NewUser("Valid@Mail.com", "h2")
		Expect(err).NotTo(HaveOccurred())
		dup.Email = "Valid@Mail.com"
		err = repo.Create(ctx, dup)
		Expect(err).To(HaveOccurred())
		errutil.AssertErrorCode(GinkgoT(), err, "USER_EMAIL_TAKEN")
	})

	It("stores only the digest of the access token", func() {
		user := createUser("valid@mail.com", "hashed_password")
		Expect(repo.UpdateAccessToken(ctx, user.ID, "any_token")).To(Succeed())

		var stored string
		err := testPool.QueryRow(ctx, `SELECT access_token_hash FROM users WHERE id = $1`, user.ID.String()).Scan(&stored)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(Equal(auth.HashAccessToken("any_token")))
		Expect(stored).NotTo(Equal("any_token"))
	})

	It("reports an unknown user on token update", func() {
		err := repo.UpdateAccessToken(ctx, ulid.Make(), "any_token")
		Expect(err).To(MatchError(auth.ErrNotFound))
	})

	It("authenticates end to end", func() {
		hasher := auth.NewPasswordHasher()
		hash, err := hasher.Hash("valid_password")
		Expect(err).NotTo(HaveOccurred())
		user := createUser("valid@mail.com", hash)

		authenticator := auth.NewAuthenticator(auth.Config{
			UserLoader:    repo,
			Comparer:      hasher,
			TokenIssuer:   auth.NewOpaqueTokenIssuer(),
			TokenRecorder: repo,
		})

		token, ok, err := authenticator.Authenticate(ctx, "valid@mail.com", "valid_password")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		var stored string
		err = testPool.QueryRow(ctx, `SELECT access_token_hash FROM users WHERE id = $1`, user.ID.String()).Scan(&stored)
		Expect(err).NotTo(HaveOccurred())
		ok, err = auth.VerifyAccessToken(token, stored)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		_, ok, err = authenticator.Authenticate(ctx, "valid@mail.com", "wrong_password")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
