package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/service"
	memorystore "github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/store/memory"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/watch"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

type staticNavigator struct {
	mu   sync.Mutex
	path string
}

func (n *staticNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *staticNavigator) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
}

type fixture struct {
	provider  *auth.MemoryProvider
	authority *auth.Authority
	svc       *service.Service
	ownerID   string
	cancel    context.CancelFunc
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := auth.NewMemoryProvider([]byte("test-key"))
	ownerID, err := provider.RegisterUser("ana@igreja.local", "segredo", "Ana")
	require.NoError(t, err)

	authority := auth.NewAuthority(provider, &staticNavigator{path: "/"}, log, nil)

	mf := feed.NewMemoryFeed()
	store := memorystore.New(mf)
	svc := service.New(authority, store, mf, nil, log, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	authority.Start(ctx)
	t.Cleanup(authority.Teardown)

	return &fixture{
		provider:  provider,
		authority: authority,
		svc:       svc,
		ownerID:   ownerID,
		cancel:    cancel,
	}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	_, err := f.provider.SignIn(context.Background(), "ana@igreja.local", "segredo", "")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		entries := f.svc.Entries()
		treasurers := f.svc.Treasurers()
		return entries.State == watch.StateReady && entries.OwnerID == f.ownerID &&
			treasurers.State == watch.StateReady
	}, 2*time.Second, 5*time.Millisecond, "caches should attach and load after sign-in")
}

func validInput() service.AddEntryInput {
	return service.AddEntryInput{
		Direction:    "inflow",
		Category:     "dizimo",
		Amount:       "150.555",
		OccurredOn:   "2024-03-10",
		Note:         "culto de domingo",
		RecorderName: "Ana",
	}
}

func TestServiceIdleBeforeSignIn(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, watch.StateIdle, f.svc.Entries().State)
	assert.Equal(t, watch.StateIdle, f.svc.Treasurers().State)

	// Intents fail before any network call while no owner is bound.
	_, err := f.svc.AddEntry(context.Background(), validInput())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeScopeMismatch))

	err = f.svc.DeleteEntry(context.Background(), "e-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeScopeMismatch))

	_, err = f.svc.SelectOrCreateTreasurer(context.Background(), "Ana")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeScopeMismatch))
}

func TestServiceAddEntry(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	created, err := f.svc.AddEntry(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, f.ownerID, created.OwnerID)
	assert.Equal(t, "150.56", created.Amount.StringFixed(2), "amount normalized half-up")

	// The collection converges through refresh, never through a local apply.
	require.Eventually(t, func() bool {
		snap := f.svc.Entries()
		return snap.State == watch.StateReady && len(snap.Items) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, created.ID, f.svc.Entries().Items[0].ID)

	summary := f.svc.Summary()
	assert.Equal(t, "150.56", summary.TotalInflow.StringFixed(2))
	assert.Equal(t, "150.56", summary.Balance.StringFixed(2))
}

func TestServiceAddEntryRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	bad := validInput()
	bad.Amount = "dez"
	_, err := f.svc.AddEntry(context.Background(), bad)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	bad = validInput()
	bad.OccurredOn = "10/03/2024"
	_, err = f.svc.AddEntry(context.Background(), bad)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	bad = validInput()
	bad.Amount = "-5"
	_, err = f.svc.AddEntry(context.Background(), bad)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	bad = validInput()
	bad.Direction = "sideways"
	_, err = f.svc.AddEntry(context.Background(), bad)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	// A rejected intent leaves the collection untouched.
	assert.Empty(t, f.svc.Entries().Items)
}

func TestServiceDeleteEntry(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	created, err := f.svc.AddEntry(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEntry(context.Background(), created.ID))
	require.Eventually(t, func() bool {
		snap := f.svc.Entries()
		return snap.State == watch.StateReady && len(snap.Items) == 0
	}, 2*time.Second, 5*time.Millisecond)

	err = f.svc.DeleteEntry(context.Background(), "does-not-exist")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestServiceSelectOrCreateTreasurer(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	created, err := f.svc.SelectOrCreateTreasurer(context.Background(), "  Maria  ")
	require.NoError(t, err)
	assert.Equal(t, "Maria", created.Name, "name trimmed before use")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Maria", f.svc.SelectedTreasurer())

	// Wait for the directory to converge, then select again: same row, no
	// duplicate insert.
	require.Eventually(t, func() bool {
		return len(f.svc.Treasurers().Items) == 1
	}, 2*time.Second, 5*time.Millisecond)

	again, err := f.svc.SelectOrCreateTreasurer(context.Background(), "Maria")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, f.svc.Treasurers().Items, 1)

	_, err = f.svc.SelectOrCreateTreasurer(context.Background(), "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestServiceSignOutDetachesCaches(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	_, err := f.svc.SelectOrCreateTreasurer(context.Background(), "Maria")
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(context.Background()))

	require.Eventually(t, func() bool {
		return f.svc.Entries().State == watch.StateIdle &&
			f.svc.Treasurers().State == watch.StateIdle
	}, 2*time.Second, 5*time.Millisecond, "sign-out should tear the caches down")

	assert.Empty(t, f.svc.SelectedTreasurer(), "selection does not survive the identity change")

	_, err = f.svc.AddEntry(context.Background(), validInput())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeScopeMismatch))
}

func TestServiceRetargetsOnIdentityChange(t *testing.T) {
	f := newFixture(t)

	otherID, err := f.provider.RegisterUser("bruno@igreja.local", "segredo", "Bruno")
	require.NoError(t, err)

	f.signIn(t)
	_, err = f.svc.AddEntry(context.Background(), validInput())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(f.svc.Entries().Items) == 1
	}, 2*time.Second, 5*time.Millisecond)

	// A different user signs in; the caches must rebind to the new owner and
	// the first user's rows must not leak through.
	_, err = f.provider.SignIn(context.Background(), "bruno@igreja.local", "segredo", "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := f.svc.Entries()
		return snap.State == watch.StateReady && snap.OwnerID == otherID
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, f.svc.Entries().Items)
}

func TestServiceEntriesOrderedByDateDescending(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	for _, date := range []string{"2024-01-15", "2024-03-10", "2023-12-01"} {
		input := validInput()
		input.OccurredOn = date
		_, err := f.svc.AddEntry(context.Background(), input)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return len(f.svc.Entries().Items) == 3
	}, 2*time.Second, 5*time.Millisecond)

	items := f.svc.Entries().Items
	require.Len(t, items, 3)
	assert.Equal(t, "2024-03-10", items[0].OccurredOn.Format(treasury.WireDateFormat))
	assert.Equal(t, "2024-01-15", items[1].OccurredOn.Format(treasury.WireDateFormat))
	assert.Equal(t, "2023-12-01", items[2].OccurredOn.Format(treasury.WireDateFormat))
}
