// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/credgate/credgate/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
		migrator  *store.Migrator
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("credgate_test"),
			postgres.WithUsername("credgate"),
			postgres.WithPassword("credgate"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())

		migrator, err = store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if migrator != nil {
			Expect(migrator.Close()).To(Succeed())
		}
		if container != nil {
			Expect(container.Terminate(ctx)).To(Succeed())
		}
	})

	It("starts at version zero with everything pending", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := migrator.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2}))
	})

	It("applies all migrations", func() {
		Expect(migrator.Up()).To(Succeed())

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())
	})

	It("creates a usable users table", func() {
		pool, err := store.Connect(ctx, connStr, store.ConnectOptions{MaxRetries: 3, Backoff: 100 * time.Millisecond})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)

		_, err = pool.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, access_token_hash)
			VALUES ('01HZZZZZZZZZZZZZZZZZZZZZZZ', 'a@mail.com', 'h', 'digest')
		`)
		Expect(err).NotTo(HaveOccurred())
		expectRejectedDuplicateEmail(ctx, pool)
	})

	It("steps back and forward", func() {
		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(1)))

		Expect(migrator.Steps(1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
	})

	It("rolls everything back", func() {
		Expect(migrator.Down()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})
})

func expectRejectedDuplicateEmail(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash)
		VALUES ('01HZZZZZZZZZZZZZZZZZZZZZZY', 'A@Mail.com', 'h')
	`)
	Expect(err).To(HaveOccurred(), "emails are unique regardless of case")
}
