package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/services"
)

// Prompt seams; tests swap them for canned answers.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) Register(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		return fmt.Errorf("already logged in as %s", a.auth.User().Email)
	}
	var in services.RegisterInput
	var err error
	if in.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if in.Email, err = getSimpleText(a.reader, "E-mail", a.out); err != nil {
		return err
	}
	if in.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	if in.PasswordConfirm, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s.\n", user.Email)
	a.afterLogin(ctx)
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		return fmt.Errorf("already logged in as %s", a.auth.User().Email)
	}
	var in services.LoginInput
	var err error
	if in.Email, err = getSimpleText(a.reader, "E-mail", a.out); err != nil {
		return err
	}
	if in.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", user.Name)
	a.afterLogin(ctx)
	return nil
}

// afterLogin reconciles with the server. When the server has nothing yet the
// local data is kept and queued for upload.
func (a *App) afterLogin(ctx context.Context) {
	src := a.sync.Reconcile(ctx)
	a.ensureSelection()
	if src == services.SourceLocal && len(a.store.Clients()) > 0 && a.isLoggedIn() {
		a.scheduler.Schedule()
	}
	fmt.Fprintf(a.out, "Using %s data.\n", src)
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return a.auth.Logout(ctx)
}

// Profile shows the account profile; "profile edit" updates it field by
// field, keeping the current value on an empty answer.
func (a *App) Profile(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	up, err := a.api.GetProfile(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printProfile(a, up)
		return nil
	}
	if args[0] != "edit" {
		return usage("profile [edit]")
	}

	p := up.Profile
	fields := []struct {
		label string
		value *string
	}{
		{"Bio", &p.Bio},
		{"Company", &p.Company},
		{"Position", &p.Position},
		{"Phone", &p.Phone},
		{"Avatar URL", &p.AvatarURL},
	}
	for _, f := range fields {
		ans, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.value), a.out)
		if err != nil {
			return err
		}
		if ans != "" {
			*f.value = ans
		}
	}

	updated, err := a.api.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	up.Profile = *updated
	fmt.Fprintln(a.out, "Profile updated.")
	printProfile(a, up)
	return nil
}

func printProfile(a *App, up *models.UserProfile) {
	fmt.Fprintf(a.out, "%s <%s>\n", up.User.Name, up.User.Email)
	if up.User.CreatedAt != nil {
		fmt.Fprintf(a.out, "  member since %s\n", up.User.CreatedAt.Format("02/01/2006"))
	}
	rows := [][2]string{
		{"bio", up.Profile.Bio},
		{"company", up.Profile.Company},
		{"position", up.Profile.Position},
		{"phone", up.Profile.Phone},
		{"avatar", up.Profile.AvatarURL},
	}
	for _, r := range rows {
		if strings.TrimSpace(r[1]) != "" {
			fmt.Fprintf(a.out, "  %-9s %s\n", r[0]+":", r[1])
		}
	}
}
