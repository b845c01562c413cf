// CLI tool to create an account with a bcrypt-hashed password.
// Profile fields come from flags; the password is read from stdin.
// Usage: go run ./cmd/create-user --username alice --email alice@example.com --age 30 --height 175 --weight 70
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	goalTypes      = []string{"weight_loss", "muscle_gain", "maintenance", "endurance"}
	activityLevels = []string{"sedentary", "lightly_active", "moderately_active", "very_active", "extremely_active"}
)

type newAccount struct {
	Username      string
	Email         string
	FullName      string
	Age           int
	Height        float64
	Weight        float64
	GoalType      string
	ActivityLevel string
}

func (a newAccount) validate() error {
	switch {
	case len(a.Username) < 3 || len(a.Username) > 50:
		return errors.New("username must be 3 to 50 characters")
	case !strings.Contains(a.Email, "@"):
		return errors.New("email is not valid")
	case a.Age < 0 || a.Age > 150:
		return errors.New("age must be between 0 and 150")
	case a.Height <= 0:
		return errors.New("height must be greater than 0")
	case a.Weight < 0:
		return errors.New("weight must be at least 0")
	case !slices.Contains(goalTypes, a.GoalType):
		return fmt.Errorf("goal-type must be one of: %s", strings.Join(goalTypes, ", "))
	case !slices.Contains(activityLevels, a.ActivityLevel):
		return fmt.Errorf("activity-level must be one of: %s", strings.Join(activityLevels, ", "))
	}
	return nil
}

// validatePassword rejects empty passwords and anything over bcrypt's
// 72-byte input limit.
func validatePassword(password string) error {
	switch {
	case password == "":
		return errors.New("password is required")
	case len(password) > 72:
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

var acct newAccount

var rootCmd = &cobra.Command{
	Use:          "create-user",
	Short:        "Create an account directly in the database",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := acct.validate(); err != nil {
			return err
		}

		fmt.Print("Password: ")
		password, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		password = strings.TrimSpace(password)
		if err := validatePassword(password); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		_ = godotenv.Load()
		ctx := cmd.Context()
		conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer conn.Close(ctx)

		id := uuid.New().String()
		now := time.Now()
		_, err = conn.Exec(ctx,
			`INSERT INTO accounts (id, username, email, password_hash, full_name, age, height, weight,
			                       goal_type, activity_level, created_at, updated_at)
			 VALUES (@id, @username, @email, @hash, @fullName, @age, @height, @weight,
			         @goalType, @activityLevel, @now, @now)`,
			pgx.NamedArgs{
				"id": id, "username": acct.Username, "email": acct.Email, "hash": string(hash),
				"fullName": acct.FullName, "age": acct.Age, "height": acct.Height, "weight": acct.Weight,
				"goalType": acct.GoalType, "activityLevel": acct.ActivityLevel, "now": now,
			})
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		fmt.Printf("\nUser created successfully!\n")
		fmt.Printf("  ID:       %s\n", id)
		fmt.Printf("  Username: %s\n", acct.Username)
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&acct.Username, "username", "", "Login name (3-50 characters)")
	f.StringVar(&acct.Email, "email", "", "Email address")
	f.StringVar(&acct.FullName, "full-name", "", "Display name")
	f.IntVar(&acct.Age, "age", 0, "Age in years")
	f.Float64Var(&acct.Height, "height", 0, "Height in centimetres")
	f.Float64Var(&acct.Weight, "weight", 0, "Weight in kilograms")
	f.StringVar(&acct.GoalType, "goal-type", "maintenance", "One of: "+strings.Join(goalTypes, ", "))
	f.StringVar(&acct.ActivityLevel, "activity-level", "sedentary", "One of: "+strings.Join(activityLevels, ", "))
	_ = rootCmd.MarkFlagRequired("username")
	_ = rootCmd.MarkFlagRequired("email")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
