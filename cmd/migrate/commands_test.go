package main

import (
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostgresURL(t *testing.T) {
	got := buildPostgresURL(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "hr",
		Password: "p@ss word",
		Name:     "onboarding",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://hr:p%40ss%20word@db:5432/onboarding?sslmode=disable", got)
}
