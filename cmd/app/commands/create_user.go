package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/allisson/useradmin/internal/user/domain"
	userUseCase "github.com/allisson/useradmin/internal/user/usecase"
)

// RunCreateUser registers a user and assigns it roleID. It is used to bootstrap the first
// administrator, since the API only lets administrators change roles. When the password is
// empty it is read from io.Reader.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	input userUseCase.RegisterUserInput,
	roleID int64,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("email", input.Email), slog.Int64("role_id", roleID))

	if input.Password == "" {
		password, err := promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
		input.Password = password
	}

	user, err := useCase.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if roleID > 0 && roleID != user.RoleID {
		user, err = useCase.UpdateRole(ctx, user.ID, roleID)
		if err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"id":      user.ID,
			"email":   user.Email,
			"role_id": user.RoleID,
		}); err != nil {
			return err
		}
	} else {
		outputUserText(user, io.Writer)
	}

	logger.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.Int64("role_id", user.RoleID),
	)

	return nil
}

// promptForPassword reads a single line password.
func promptForPassword(io IOTuple) (string, error) {
	if io.Reader == nil {
		return "", fmt.Errorf("password is required")
	}

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && password == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(io.Writer)

	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func outputUserText(user *domain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %d\n", user.ID)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Role ID: %d\n", user.RoleID)
}
