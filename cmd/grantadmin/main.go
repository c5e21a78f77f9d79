// Command grantadmin flips the admin flag for a user by email.
//
// Admin status is never granted through the API; an operator runs this
// against the database directly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuswell/psychtool/internal/errs"
	"github.com/campuswell/psychtool/internal/model"
	"github.com/campuswell/psychtool/internal/repository/postgres"
)

func main() {
	dsn := flag.String("dsn", "", "PostgreSQL DSN (required)")
	email := flag.String("email", "", "user email (required)")
	revoke := flag.Bool("revoke", false, "revoke admin instead of granting")
	flag.Parse()

	if *dsn == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer pool.Close()

	role := model.RoleAdmin
	if *revoke {
		role = model.RoleStandard
	}

	repo := postgres.NewUserRepo(&postgres.DB{Pool: pool})
	if err := repo.SetRoleByEmail(ctx, *email, role); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "no user with email %s\n", *email)
		} else {
			fmt.Fprintln(os.Stderr, "update:", err)
		}
		os.Exit(1)
	}

	fmt.Printf("%s: role set to %s\n", *email, role)
}
