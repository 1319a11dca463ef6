package testhelpers

import (
	"fmt"

	g "github.com/onsi/gomega"
	"gorm.io/gorm"
)

// CleanupDB truncates every table in the public schema.
func CleanupDB(db *gorm.DB) {
	var tables []string

	err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error
	g.Expect(err).NotTo(g.HaveOccurred())

	for _, table := range tables {
		if table == "schema_migrations" {
			continue
		}

		query := fmt.Sprintf("TRUNCATE TABLE \"%s\" RESTART IDENTITY CASCADE", table)
		g.Expect(db.Exec(query).Error).To(g.Succeed())
	}
}
