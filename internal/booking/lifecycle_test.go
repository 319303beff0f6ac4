package booking

import (
    "context"
    "errors"
    "sort"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/NizarI20/ServiceHub-sub000/internal/model"
)

// ----- fakes -----

type fakeServices struct {
    services map[uint64]model.Service
}

func (f *fakeServices) GetService(_ context.Context, id uint64) (model.Service, error) {
    s, ok := f.services[id]
    if !ok {
        return model.Service{}, ErrServiceNotFound
    }
    return s, nil
}

type fakeUsers struct {
    users map[uint64]model.User
}

func (f *fakeUsers) GetUser(_ context.Context, id uint64) (model.User, error) {
    u, ok := f.users[id]
    if !ok {
        return model.User{}, errors.New("user not found")
    }
    return u, nil
}

type fakeStore struct {
    nextID       uint64
    base         time.Time
    reservations map[uint64]model.Reservation
    services     *fakeServices
    users        *fakeUsers
}

func newFakeStore(services *fakeServices, users *fakeUsers) *fakeStore {
    return &fakeStore{
        base:         time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
        reservations: map[uint64]model.Reservation{},
        services:     services,
        users:        users,
    }
}

func (f *fakeStore) Create(_ context.Context, res *model.Reservation) error {
    f.nextID++
    res.ID = f.nextID
    // Monotonic creation times so newest-first ordering is observable.
    res.CreatedAt = f.base.Add(time.Duration(f.nextID) * time.Minute)
    res.UpdatedAt = res.CreatedAt
    f.reservations[res.ID] = *res
    return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
    res, ok := f.reservations[id]
    if !ok {
        return model.Reservation{}, ErrReservationNotFound
    }
    return res, nil
}

func (f *fakeStore) WindowTaken(_ context.Context, serviceID uint64, start, end time.Time) (bool, error) {
    for _, res := range f.reservations {
        if res.ServiceID == serviceID && res.Status != model.StatusCancelled &&
            res.StartsAt.Equal(start) && res.EndsAt.Equal(end) {
            return true, nil
        }
    }
    return false, nil
}

func (f *fakeStore) SetStatusIfPending(_ context.Context, id uint64, status string) error {
    res, ok := f.reservations[id]
    if !ok {
        return ErrReservationNotFound
    }
    if res.Status != model.StatusPending {
        return ErrNotPending
    }
    res.Status = status
    res.UpdatedAt = res.CreatedAt.Add(time.Minute)
    f.reservations[id] = res
    return nil
}

func (f *fakeStore) view(res model.Reservation) ReservationView {
    svc := f.services.services[res.ServiceID]
    client := f.users.users[res.ClientID]
    return ReservationView{
        ID:        res.ID,
        Status:    res.Status,
        StartsAt:  res.StartsAt,
        EndsAt:    res.EndsAt,
        CreatedAt: res.CreatedAt,
        Service: ServiceSummary{
            ID:         svc.ID,
            Title:      svc.Title,
            PriceCents: svc.PriceCents,
            ProviderID: svc.ProviderID,
        },
        Client: ClientSummary{ID: client.ID, Name: client.Name, Email: client.Email},
    }
}

func (f *fakeStore) collect(match func(model.Reservation) bool) []ReservationView {
    out := []ReservationView{}
    for _, res := range f.reservations {
        if match(res) {
            out = append(out, f.view(res))
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
    return out
}

func (f *fakeStore) ListByProvider(_ context.Context, providerID uint64) ([]ReservationView, error) {
    return f.collect(func(res model.Reservation) bool {
        return f.services.services[res.ServiceID].ProviderID == providerID
    }), nil
}

func (f *fakeStore) ListByClient(_ context.Context, clientID uint64) ([]ReservationView, error) {
    return f.collect(func(res model.Reservation) bool { return res.ClientID == clientID }), nil
}

func (f *fakeStore) ConfirmedStartingBetween(_ context.Context, from, to time.Time) ([]ReservationView, error) {
    return f.collect(func(res model.Reservation) bool {
        return res.Status == model.StatusConfirmed &&
            !res.StartsAt.Before(from) && res.StartsAt.Before(to)
    }), nil
}

type sentNote struct {
    recipient     uint64
    message       string
    reservationID uint64
}

type fakeNotes struct {
    created []sentNote
    fail    bool
}

func (f *fakeNotes) Create(_ context.Context, recipientID uint64, message string, reservationID uint64) (model.Notification, error) {
    if f.fail {
        return model.Notification{}, errors.New("notification store down")
    }
    f.created = append(f.created, sentNote{recipient: recipientID, message: message, reservationID: reservationID})
    return model.Notification{ID: uint64(len(f.created)), UserID: recipientID, ReservationID: reservationID, Message: message}, nil
}

type sentMail struct {
    to       string
    template string
    args     TemplateArgs
}

type fakeMail struct {
    sent []sentMail
    fail bool
}

func (f *fakeMail) Send(_ context.Context, toEmail, template string, args TemplateArgs) error {
    if f.fail {
        return errors.New("smtp down")
    }
    f.sent = append(f.sent, sentMail{to: toEmail, template: template, args: args})
    return nil
}

// ----- fixture -----

const (
    providerID = uint64(10)
    clientID   = uint64(20)
    client2ID  = uint64(21)
    serviceID  = uint64(100)
)

type fixture struct {
    lc    *Lifecycle
    store *fakeStore
    notes *fakeNotes
    mail  *fakeMail
}

func newFixture() *fixture {
    services := &fakeServices{services: map[uint64]model.Service{
        serviceID: {ID: serviceID, ProviderID: providerID, Title: "Garden makeover", PriceCents: 10000, IsAvailable: true},
    }}
    users := &fakeUsers{users: map[uint64]model.User{
        providerID: {ID: providerID, Name: "Paula Provider", Email: "paula@example.com", Role: model.RoleProvider},
        clientID:   {ID: clientID, Name: "Carl Client", Email: "carl@example.com", Role: model.RoleClient},
        client2ID:  {ID: client2ID, Name: "Cora Client", Email: "cora@example.com", Role: model.RoleClient},
    }}
    store := newFakeStore(services, users)
    notes := &fakeNotes{}
    mail := &fakeMail{}
    return &fixture{
        lc:    NewLifecycle(services, users, store, notes, mail),
        store: store,
        notes: notes,
        mail:  mail,
    }
}

func window(h int) Window {
    start := time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
    return Window{Start: start, End: start.Add(time.Hour)}
}

// ----- creation -----

func TestCreate_StartsPending(t *testing.T) {
    f := newFixture()

    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    assert.Equal(t, model.StatusPending, res.Status)
    assert.NotZero(t, res.ID)
    assert.Equal(t, serviceID, res.ServiceID)
    assert.Equal(t, clientID, res.ClientID)

    require.Len(t, f.notes.created, 1)
    assert.Equal(t, providerID, f.notes.created[0].recipient)
    assert.Equal(t, res.ID, f.notes.created[0].reservationID)
    assert.Contains(t, f.notes.created[0].message, "Garden makeover")

    assert.Empty(t, f.mail.sent, "no email on creation")
}

func TestCreate_UnknownService(t *testing.T) {
    f := newFixture()

    _, err := f.lc.Create(context.Background(), clientID, 999, window(10))
    assert.ErrorIs(t, err, ErrServiceNotFound)
    assert.Empty(t, f.store.reservations)
    assert.Empty(t, f.notes.created)
}

func TestCreate_WindowConflict(t *testing.T) {
    f := newFixture()

    _, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    _, err = f.lc.Create(context.Background(), client2ID, serviceID, window(10))
    assert.ErrorIs(t, err, ErrWindowTaken)
    assert.Len(t, f.store.reservations, 1, "no second reservation may be created")
}

func TestCreate_CancelledWindowIsFreeAgain(t *testing.T) {
    f := newFixture()

    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)
    _, err = f.lc.Cancel(context.Background(), res.ID, providerID)
    require.NoError(t, err)

    _, err = f.lc.Create(context.Background(), client2ID, serviceID, window(10))
    assert.NoError(t, err)
}

func TestCreate_InvalidWindow(t *testing.T) {
    f := newFixture()

    w := window(10)
    w.End = w.Start
    _, err := f.lc.Create(context.Background(), clientID, serviceID, w)
    assert.ErrorIs(t, err, ErrInvalidWindow)
}

// ----- transitions -----

func TestConfirm_TransitionsAndNotifies(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    got, err := f.lc.Confirm(context.Background(), res.ID, providerID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, got.Status)

    stored := f.store.reservations[res.ID]
    assert.Equal(t, model.StatusConfirmed, stored.Status)

    require.Len(t, f.notes.created, 2)
    clientNote := f.notes.created[1]
    assert.Equal(t, clientID, clientNote.recipient)
    assert.Equal(t, res.ID, clientNote.reservationID)
    assert.Contains(t, clientNote.message, "confirmed")

    require.Len(t, f.mail.sent, 1)
    assert.Equal(t, "carl@example.com", f.mail.sent[0].to)
    assert.Equal(t, TemplateReservationConfirmed, f.mail.sent[0].template)
    assert.Equal(t, "Carl Client", f.mail.sent[0].args.ClientName)
    assert.Equal(t, "Garden makeover", f.mail.sent[0].args.ServiceTitle)
}

func TestCancel_TransitionsAndNotifies(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    got, err := f.lc.Cancel(context.Background(), res.ID, providerID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, got.Status)

    require.Len(t, f.notes.created, 2)
    assert.Contains(t, f.notes.created[1].message, "refused")

    require.Len(t, f.mail.sent, 1)
    assert.Equal(t, TemplateReservationCancelled, f.mail.sent[0].template)
}

func TestConfirm_SecondCallFailsWithoutNewEffects(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    _, err = f.lc.Confirm(context.Background(), res.ID, providerID)
    require.NoError(t, err)
    notesAfterFirst := len(f.notes.created)
    mailAfterFirst := len(f.mail.sent)

    _, err = f.lc.Confirm(context.Background(), res.ID, providerID)
    assert.ErrorIs(t, err, ErrNotPending)
    assert.Equal(t, model.StatusConfirmed, f.store.reservations[res.ID].Status)
    assert.Len(t, f.notes.created, notesAfterFirst, "first call's notifications unchanged")
    assert.Len(t, f.mail.sent, mailAfterFirst)
}

func TestCancel_AfterConfirmFails(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)
    _, err = f.lc.Confirm(context.Background(), res.ID, providerID)
    require.NoError(t, err)

    _, err = f.lc.Cancel(context.Background(), res.ID, providerID)
    assert.ErrorIs(t, err, ErrNotPending)
    assert.Equal(t, model.StatusConfirmed, f.store.reservations[res.ID].Status)
}

func TestConfirm_RequiresOwningProvider(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    _, err = f.lc.Confirm(context.Background(), res.ID, client2ID)
    assert.ErrorIs(t, err, ErrNotOwner)
    assert.Equal(t, model.StatusPending, f.store.reservations[res.ID].Status)
    assert.Len(t, f.notes.created, 1, "only the creation notification exists")
    assert.Empty(t, f.mail.sent)
}

func TestConfirm_UnknownReservation(t *testing.T) {
    f := newFixture()

    _, err := f.lc.Confirm(context.Background(), 404, providerID)
    assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestConfirm_SideEffectFailureDoesNotRollBack(t *testing.T) {
    f := newFixture()
    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)

    f.notes.fail = true
    f.mail.fail = true

    got, err := f.lc.Confirm(context.Background(), res.ID, providerID)
    require.NoError(t, err, "transition must succeed even when side effects fail")
    assert.Equal(t, model.StatusConfirmed, got.Status)
    assert.Equal(t, model.StatusConfirmed, f.store.reservations[res.ID].Status)
}

// ----- listings -----

func TestListForProvider_FiltersAndOrders(t *testing.T) {
    f := newFixture()
    // A second provider with own service to prove filtering.
    otherProvider := uint64(11)
    otherService := uint64(101)
    f.store.services.services[otherService] = model.Service{ID: otherService, ProviderID: otherProvider, Title: "Dog walking", PriceCents: 1500}

    first, err := f.lc.Create(context.Background(), clientID, serviceID, window(9))
    require.NoError(t, err)
    second, err := f.lc.Create(context.Background(), client2ID, serviceID, window(11))
    require.NoError(t, err)
    _, err = f.lc.Create(context.Background(), clientID, otherService, window(9))
    require.NoError(t, err)

    views, err := f.lc.ListForProvider(context.Background(), providerID)
    require.NoError(t, err)
    require.Len(t, views, 2)
    assert.Equal(t, second.ID, views[0].ID, "newest first")
    assert.Equal(t, first.ID, views[1].ID)
    for _, v := range views {
        assert.Equal(t, providerID, v.Service.ProviderID)
        assert.NotEmpty(t, v.Client.Name)
        assert.NotEmpty(t, v.Client.Email)
    }
}

func TestListForClient_ReturnsOwnNewestFirst(t *testing.T) {
    f := newFixture()
    first, err := f.lc.Create(context.Background(), clientID, serviceID, window(9))
    require.NoError(t, err)
    second, err := f.lc.Create(context.Background(), clientID, serviceID, window(11))
    require.NoError(t, err)
    _, err = f.lc.Create(context.Background(), client2ID, serviceID, window(13))
    require.NoError(t, err)

    views, err := f.lc.ListForClient(context.Background(), clientID)
    require.NoError(t, err)
    require.Len(t, views, 2)
    assert.Equal(t, second.ID, views[0].ID)
    assert.Equal(t, first.ID, views[1].ID)
}

// ----- reminders -----

func TestSendReminders_OnlyConfirmedStartingTomorrow(t *testing.T) {
    f := newFixture()
    now := time.Date(2025, 5, 31, 8, 0, 0, 0, time.UTC)

    tomorrow, err := f.lc.Create(context.Background(), clientID, serviceID, window(10)) // starts 2025-06-01
    require.NoError(t, err)
    _, err = f.lc.Confirm(context.Background(), tomorrow.ID, providerID)
    require.NoError(t, err)

    // Pending reservation tomorrow: not reminded.
    _, err = f.lc.Create(context.Background(), client2ID, serviceID, window(14))
    require.NoError(t, err)

    // Confirmed reservation a week out: not reminded.
    later := Window{Start: time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC), End: time.Date(2025, 6, 7, 11, 0, 0, 0, time.UTC)}
    far, err := f.lc.Create(context.Background(), client2ID, serviceID, later)
    require.NoError(t, err)
    _, err = f.lc.Confirm(context.Background(), far.ID, providerID)
    require.NoError(t, err)

    f.mail.sent = nil // drop the confirmation emails
    sent, err := f.lc.SendReminders(context.Background(), now)
    require.NoError(t, err)
    assert.Equal(t, 1, sent)
    require.Len(t, f.mail.sent, 1)
    assert.Equal(t, TemplateReservationReminder, f.mail.sent[0].template)
    assert.Equal(t, "carl@example.com", f.mail.sent[0].to)
}

func TestSendReminders_DispatchFailureIsNotFatal(t *testing.T) {
    f := newFixture()
    now := time.Date(2025, 5, 31, 8, 0, 0, 0, time.UTC)

    res, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)
    _, err = f.lc.Confirm(context.Background(), res.ID, providerID)
    require.NoError(t, err)

    f.mail.fail = true
    sent, err := f.lc.SendReminders(context.Background(), now)
    require.NoError(t, err)
    assert.Zero(t, sent)
}

// ----- end-to-end scenario -----

func TestScenario_RequestConfirmThenRefuseFails(t *testing.T) {
    f := newFixture()

    r1, err := f.lc.Create(context.Background(), clientID, serviceID, window(10))
    require.NoError(t, err)
    assert.Equal(t, model.StatusPending, r1.Status)
    require.Len(t, f.notes.created, 1)
    assert.Equal(t, providerID, f.notes.created[0].recipient)

    // A second client racing for the same window is rejected.
    _, err = f.lc.Create(context.Background(), client2ID, serviceID, window(10))
    assert.ErrorIs(t, err, ErrWindowTaken)

    confirmed, err := f.lc.Confirm(context.Background(), r1.ID, providerID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, confirmed.Status)
    require.Len(t, f.notes.created, 2)
    assert.Equal(t, clientID, f.notes.created[1].recipient)

    _, err = f.lc.Cancel(context.Background(), r1.ID, providerID)
    assert.ErrorIs(t, err, ErrNotPending)
    assert.Equal(t, model.StatusConfirmed, f.store.reservations[r1.ID].Status)
}
