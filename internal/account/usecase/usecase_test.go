package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	libotp "github.com/pquerna/otp"

	"github.com/migorithm/authotp/internal/account/entity"
	"github.com/migorithm/authotp/internal/account/outbound/memstore"
	"github.com/migorithm/authotp/internal/account/outbound/mq"
	"github.com/migorithm/authotp/internal/account/usecase"
	"github.com/migorithm/authotp/internal/pkg/clock"
	"github.com/migorithm/authotp/internal/pkg/config"
	"github.com/migorithm/authotp/internal/pkg/goerror"
	"github.com/migorithm/authotp/internal/pkg/hash"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/messaging"
	"github.com/migorithm/authotp/internal/pkg/otp"
	"github.com/migorithm/authotp/internal/pkg/uid"
	"github.com/migorithm/authotp/internal/pkg/validator"
	"github.com/migorithm/authotp/internal/shared/event"
)

type fixture struct {
	uc    *usecase.Usecase
	store *memstore.Store
	bus   *messaging.Memory
	clock *clock.FixedClocker
	totp  *otp.TOTP
}

func newFixture(t *testing.T, yaml string) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	cred, err := hash.NewFromDriver(hash.DriverBcrypt, hash.Options{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ins := instrument.NewNoop()
	f := &fixture{
		store: memstore.NewStore(ins, uid.NewUUID()),
		bus:   messaging.NewMemory(),
		clock: clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		totp:  otp.NewTOTP("migorithm", 0, 0, 0, libotp.DigitsSix),
	}

	f.uc = usecase.New(usecase.Dependency{
		RepoStore:     f.store,
		RepoMessaging: mq.NewMessaging(f.bus, ins),
		Validator:     v,
		Config:        cfg,
		Credential:    cred,
		Totp:          f.totp,
		Clock:         f.clock,
		Instrument:    ins,
	})

	return f
}

func (f *fixture) code(t *testing.T, secret string) string {
	t.Helper()

	code, err := f.totp.GenerateCode(secret, f.clock.Now())
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}
	return code
}

// wrongCode returns a six-digit code that differs from every code accepted
// in the current window.
func (f *fixture) wrongCode(t *testing.T, secret string) string {
	t.Helper()

	accepted := map[string]bool{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, _ := f.totp.GenerateCode(secret, f.clock.Now().Add(d))
		accepted[code] = true
	}
	for _, c := range []string{"000000", "111111", "222222", "333333"} {
		if !accepted[c] {
			return c
		}
	}
	t.Fatalf("no wrong code available")
	return ""
}

func assertCode(t *testing.T, err error, sentinel error, code goerror.Code) {
	t.Helper()

	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}
	if got := goerror.CodeOf(err); got != code {
		t.Fatalf("code = %v, want %v", got, code)
	}
}

func TestUsecase_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "mfa:\n  totp:\n    qr_size: 64\n")

	// Arrange
	user, err := f.uc.Register(ctx, usecase.RegisterInput{Name: "Ann", Email: "ann@x.com", Credential: "pw"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Fatalf("Register() returned empty id")
	}

	// Act: generate
	gen, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID, Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("OTPGenerate() error = %v", err)
	}
	if !strings.Contains(gen.AuthURL, "secret="+gen.Secret) {
		t.Fatalf("AuthURL %q does not carry secret %q", gen.AuthURL, gen.Secret)
	}
	if gen.AuthURL != "otpauth://totp/migorithm:ann@x.com?secret="+gen.Secret+"&issuer=migorithm" {
		t.Fatalf("AuthURL = %q", gen.AuthURL)
	}
	if len(gen.QRCode) == 0 {
		t.Fatalf("QRCode is empty")
	}

	// Act: verify
	c := f.code(t, gen.Secret)
	if err := f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: c}); err != nil {
		t.Fatalf("OTPVerify() error = %v", err)
	}
	mfa, _ := f.store.FindMFAByAccount(ctx, user.ID)
	if !mfa.OTPEnabled || !mfa.OTPVerified {
		t.Fatalf("record not enabled: %+v", mfa)
	}

	login, err := f.uc.Login(ctx, usecase.LoginInput{Email: "ANN@x.com", Credential: "pw"})
	if err != nil || !login.OTPEnabled || login.ID != user.ID {
		t.Fatalf("Login() = %+v, %v", login, err)
	}

	// Act: validate
	if err := f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: c}); err != nil {
		t.Fatalf("OTPValidate() error = %v", err)
	}

	// Act: disable
	if err := f.uc.OTPDisable(ctx, usecase.OTPDisableInput{AccountID: user.ID}); err != nil {
		t.Fatalf("OTPDisable() error = %v", err)
	}

	// Assert
	err = f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: c})
	assertCode(t, err, entity.ErrMFANotEnabled, goerror.CodeForbidden)

	mfa, _ = f.store.FindMFAByAccount(ctx, user.ID)
	if *mfa != (entity.MFA{AccountID: user.ID}) {
		t.Fatalf("disable left state behind: %+v", mfa)
	}

	for _, dest := range []string{
		event.AccountRegisteredDestination,
		event.AccountMFAEnabledDestination,
		event.AccountMFADisabledDestination,
	} {
		if n := len(f.bus.Messages(dest)); n != 1 {
			t.Fatalf("%s published %d times, want 1", dest, n)
		}
	}
}

func TestUsecase_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")

	out, err := f.uc.Register(ctx, usecase.RegisterInput{Name: " Ann ", Email: "Ann@X.com", Credential: "pw"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if out.Email != "ann@x.com" || out.Name != "Ann" {
		t.Fatalf("Register() = %+v", out)
	}

	stored, _ := f.store.FindUserByID(ctx, out.ID)
	if stored.Credential == "pw" || stored.Credential == "" {
		t.Fatalf("credential stored in plaintext: %q", stored.Credential)
	}

	_, err = f.uc.Register(ctx, usecase.RegisterInput{Name: "Other", Email: "ANN@x.com", Credential: "x"})
	assertCode(t, err, entity.ErrDuplicateEmail, goerror.CodeConflict)

	_, err = f.uc.Register(ctx, usecase.RegisterInput{Name: "", Email: "bad", Credential: ""})
	if goerror.CodeOf(err) != goerror.CodeInvalidInput {
		t.Fatalf("invalid input code = %v", goerror.CodeOf(err))
	}
}

func TestUsecase_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	_, _ = f.uc.Register(ctx, usecase.RegisterInput{Name: "Bo", Email: "bo@x.com", Credential: "secret"})

	tests := []struct {
		name string
		in   usecase.LoginInput
	}{
		{name: "UnknownEmail", in: usecase.LoginInput{Email: "nobody@x.com", Credential: "secret"}},
		{name: "WrongCredential", in: usecase.LoginInput{Email: "bo@x.com", Credential: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Login(ctx, tt.in)
			assertCode(t, err, entity.ErrInvalidCredentials, goerror.CodeUnauthorized)
		})
	}

	out, err := f.uc.Login(ctx, usecase.LoginInput{Email: "bo@x.com", Credential: "secret"})
	if err != nil || out.OTPEnabled {
		t.Fatalf("Login() = %+v, %v", out, err)
	}
}

func TestUsecase_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")

	ops := map[string]func(id string) error{
		"Generate": func(id string) error {
			_, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: id})
			return err
		},
		"Verify": func(id string) error {
			return f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: id, Token: "123456"})
		},
		"Validate": func(id string) error {
			return f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: id, Token: "123456"})
		},
		"Disable": func(id string) error {
			return f.uc.OTPDisable(ctx, usecase.OTPDisableInput{AccountID: id})
		},
		"Status": func(id string) error {
			_, err := f.uc.OTPStatus(ctx, usecase.OTPStatusInput{AccountID: id})
			return err
		},
	}

	ids := map[string]string{"Unknown": "missing", "Empty": "", "Blank": "   "}

	for name, op := range ops {
		for idName, id := range ids {
			t.Run(name+"/"+idName, func(t *testing.T) {
				assertCode(t, op(id), entity.ErrAccountNotFound, goerror.CodeNotFound)
			})
		}
	}
}

func TestUsecase_VerifyAndValidateRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Cy", Email: "cy@x.com", Credential: "pw"})

	err := f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: "123456"})
	assertCode(t, err, entity.ErrSecretMissing, goerror.CodePreconditionFailed)

	err = f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: "123456"})
	assertCode(t, err, entity.ErrMFANotEnabled, goerror.CodeForbidden)

	gen, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
	if err != nil {
		t.Fatalf("OTPGenerate() error = %v", err)
	}

	// validate is refused before enablement even with a correct code
	err = f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, gen.Secret)})
	assertCode(t, err, entity.ErrMFANotEnabled, goerror.CodeForbidden)

	for _, token := range []string{f.wrongCode(t, gen.Secret), "", "12345", "abcdef", "1234567890"} {
		err = f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: token})
		assertCode(t, err, entity.ErrInvalidToken, goerror.CodeUnauthorized)
	}

	status, _ := f.uc.OTPStatus(ctx, usecase.OTPStatusInput{AccountID: user.ID})
	if status.OTPEnabled || status.State != entity.MFAStateSecretGenerated || !status.HasSecret {
		t.Fatalf("failed verify changed state: %+v", status)
	}

	// a code from the previous step is still accepted
	prev, _ := f.totp.GenerateCode(gen.Secret, f.clock.Now().Add(-30*time.Second))
	if err := f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: prev}); err != nil {
		t.Fatalf("OTPVerify(prev step) error = %v", err)
	}

	f.clock.Advance(2 * time.Minute)
	err = f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: prev})
	assertCode(t, err, entity.ErrInvalidToken, goerror.CodeUnauthorized)

	if err := f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, gen.Secret)}); err != nil {
		t.Fatalf("OTPValidate(fresh) error = %v", err)
	}

	if n := len(f.bus.Messages(event.AccountMFAEnabledDestination)); n != 1 {
		t.Fatalf("mfa enabled published %d times, want 1", n)
	}
}

func TestUsecase_GenerateUsesStoredEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "mfa:\n  totp:\n    qr_size: 0\n")
	user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Di", Email: "Di@X.com", Credential: "pw"})

	gen, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
	if err != nil {
		t.Fatalf("OTPGenerate() error = %v", err)
	}

	if !strings.HasPrefix(gen.AuthURL, "otpauth://totp/migorithm:di@x.com?") {
		t.Fatalf("AuthURL = %q", gen.AuthURL)
	}
	if gen.QRCode != nil {
		t.Fatalf("QRCode should be skipped when qr_size is 0")
	}

	mfa, _ := f.store.FindMFAByAccount(ctx, user.ID)
	if mfa.OTPSecret != gen.Secret || mfa.OTPAuthURL != gen.AuthURL || mfa.OTPEnabled {
		t.Fatalf("stored = %+v", mfa)
	}
}

func TestUsecase_GenerateAcceptsAnyLabel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Ann", Email: "ann@x.com", Credential: "pw"})

	gen, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID, Email: "Ann Smith"})
	if err != nil {
		t.Fatalf("OTPGenerate() error = %v", err)
	}

	want := "otpauth://totp/migorithm:Ann Smith?secret=" + gen.Secret + "&issuer=migorithm"
	if gen.AuthURL != want {
		t.Fatalf("AuthURL = %q, want %q", gen.AuthURL, want)
	}
	if len(gen.QRCode) == 0 {
		t.Fatalf("QRCode is empty")
	}
}

func TestUsecase_ValidateLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Eve", Email: "eve@x.com", Credential: "pw"})
	gen, _ := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
	if err := f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, gen.Secret)}); err != nil {
		t.Fatalf("OTPVerify() error = %v", err)
	}
	before, _ := f.store.FindMFAByAccount(ctx, user.ID)

	if err := f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, gen.Secret)}); err != nil {
		t.Fatalf("OTPValidate() error = %v", err)
	}
	err := f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.wrongCode(t, gen.Secret)})
	assertCode(t, err, entity.ErrInvalidToken, goerror.CodeUnauthorized)

	after, _ := f.store.FindMFAByAccount(ctx, user.ID)
	if *after != *before {
		t.Fatalf("record changed: before %+v after %+v", before, after)
	}
}

func TestUsecase_Regenerate(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantEnabled bool
	}{
		{name: "KeepsEnablementByDefault", yaml: "", wantEnabled: true},
		{
			name:        "ResetsWhenConfigured",
			yaml:        "modules:\n  account:\n    mfa:\n      regenerate_resets_enabled: true\n",
			wantEnabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, tt.yaml)
			user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Ed", Email: "ed@x.com", Credential: "pw"})

			first, _ := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
			if err := f.uc.OTPVerify(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, first.Secret)}); err != nil {
				t.Fatalf("OTPVerify() error = %v", err)
			}

			second, err := f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
			if err != nil {
				t.Fatalf("OTPGenerate() error = %v", err)
			}
			if second.Secret == first.Secret {
				t.Fatalf("secret not replaced")
			}

			status, _ := f.uc.OTPStatus(ctx, usecase.OTPStatusInput{AccountID: user.ID})
			if status.OTPEnabled != tt.wantEnabled || status.OTPVerified != tt.wantEnabled {
				t.Fatalf("status = %+v, want enabled=%v", status, tt.wantEnabled)
			}

			// only the new secret is accepted from now on
			if status.OTPEnabled {
				if err := f.uc.OTPValidate(ctx, usecase.OTPVerifyInput{AccountID: user.ID, Token: f.code(t, second.Secret)}); err != nil {
					t.Fatalf("OTPValidate(new secret) error = %v", err)
				}
			}
		})
	}
}

func TestUsecase_DisableFromAnyState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	user, _ := f.uc.Register(ctx, usecase.RegisterInput{Name: "Fi", Email: "fi@x.com", Credential: "pw"})

	if err := f.uc.OTPDisable(ctx, usecase.OTPDisableInput{AccountID: user.ID}); err != nil {
		t.Fatalf("OTPDisable(uninitialized) error = %v", err)
	}

	_, _ = f.uc.OTPGenerate(ctx, usecase.OTPGenerateInput{AccountID: user.ID})
	if err := f.uc.OTPDisable(ctx, usecase.OTPDisableInput{AccountID: user.ID}); err != nil {
		t.Fatalf("OTPDisable(secret generated) error = %v", err)
	}

	status, _ := f.uc.OTPStatus(ctx, usecase.OTPStatusInput{AccountID: user.ID})
	if status.State != entity.MFAStateUninitialized || status.HasSecret {
		t.Fatalf("status = %+v", status)
	}

	if n := len(f.bus.Messages(event.AccountMFADisabledDestination)); n != 0 {
		t.Fatalf("disable of a non-enabled account published %d events", n)
	}
}
