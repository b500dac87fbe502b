package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	// Arrange: без файла конфигурации, только переменные окружения
	t.Setenv("DATABASE_HOST", "db.local")
	t.Setenv("DATABASE_USER", "quizcheck")
	t.Setenv("DATABASE_DBNAME", "quizcheck_db")
	t.Setenv("JWT_SECRET", "env-secret")

	// Act
	cfg, err := Load("")

	// Assert: умолчания прохождения викторины — как в исходной системе
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Quiz.QuestionsPerAttempt)
	assert.Equal(t, 70, cfg.Quiz.PassingScore)
	assert.Equal(t, 30, cfg.Quiz.TimeLimitMinutes)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.local")
	t.Setenv("DATABASE_USER", "quizcheck")
	t.Setenv("DATABASE_DBNAME", "quizcheck_db")
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestLoad_InvalidPassingScore(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.local")
	t.Setenv("DATABASE_USER", "quizcheck")
	t.Setenv("DATABASE_DBNAME", "quizcheck_db")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("QUIZ_PASSING_SCORE", "146")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "passingScore")
}

func TestPostgresConnectionString(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "quizcheck_db",
		SSLMode:  "disable",
	}

	dsn := d.PostgresConnectionString()

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=quizcheck_db sslmode=disable",
		dsn)
}
