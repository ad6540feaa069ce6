package cli

import (
	"errors"
	"strings"
	"time"

	"seller-cli/internal/session"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Phone + one-time code login",
	}
	cmd.AddCommand(newLoginRequestCmd(app))
	cmd.AddCommand(newLoginVerifyCmd(app))
	return cmd
}

func newLoginRequestCmd(app *App) *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask the backend to send a one-time code",
		RunE: func(cmd *cobra.Command, args []string) error {
			phone = strings.TrimSpace(phone)
			if phone == "" {
				return writeErr(cmd, errors.New("--phone is required"))
			}
			if err := app.open(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			res, err := app.client.RequestOTP(cmd.Context(), phone)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"phone":  phone,
				"status": res.Status,
				"body":   res.Body,
				"raw":    res.Raw,
			}})
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number (e.g. +66812345678)")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newLoginVerifyCmd(app *App) *cobra.Command {
	var phone, otp string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the one-time code and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			phone, otp = strings.TrimSpace(phone), strings.TrimSpace(otp)
			if phone == "" || otp == "" {
				return writeErr(cmd, errors.New("--phone and --otp are required"))
			}
			if err := app.open(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			res, err := app.client.VerifyOTP(ctx, phone, otp)
			if err != nil {
				return writeErr(cmd, err)
			}
			tok := res.BearerToken()
			if tok == "" {
				return writeErr(cmd, errors.New("verification succeeded but no token was returned"))
			}
			if err := app.sess.Login(ctx, tok); err != nil {
				return writeErr(cmd, err)
			}
			if res.Cookies != "" {
				if err := app.sess.SetCookies(ctx, res.Cookies); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": whoami(app.sess)})
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number used for the request")
	cmd.Flags().StringVar(&otp, "otp", "", "One-time code")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("otp")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			app.sess.Logout(cmd.Context())
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"authenticated": false}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity decoded from the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": whoami(app.sess)})
		},
	}
}

func whoami(s *session.Session) map[string]any {
	out := map[string]any{
		"authenticated": s.IsAuthenticated(),
		"tokenKind":     session.Kind(s.Token()).String(),
	}
	claim := func(key string, v string, ok bool) {
		if ok {
			out[key] = v
		} else {
			out[key] = nil
		}
	}
	v, ok := s.MerchantID()
	claim("merchantId", v, ok)
	v, ok = s.BranchID()
	claim("branchId", v, ok)
	v, ok = s.UserID()
	claim("userId", v, ok)
	v, ok = s.Role()
	claim("role", v, ok)

	if info, ok := s.UserInfo(); ok {
		out["claims"] = info.Raw
		if at, ok := info.ExpiresAt(); ok {
			out["expiresAt"] = at.Format(time.RFC3339)
			out["expired"] = info.Expired(time.Now())
		}
	} else {
		out["claims"] = nil
	}
	return out
}
