package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	itineraryRepo "itinera/database/repository/itinerary"
	userRepo "itinera/database/repository/user"
	"itinera/models"
	"itinera/services/providercache"
	"itinera/services/search"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory ItineraryRepository. Documents are copied in and out
// so callers never alias stored state.
type fakeRepo struct {
	mu      sync.Mutex
	docs    map[string]*models.Itinerary
	markErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[string]*models.Itinerary)}
}

func clone(it *models.Itinerary) *models.Itinerary {
	b, err := json.Marshal(it)
	if err != nil {
		panic(err)
	}
	var out models.Itinerary
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	for i := range out.Users {
		out.Users[i].User = nil
	}
	return &out
}

func (r *fakeRepo) Create(it *models.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[it.ID]; ok {
		return fmt.Errorf("duplicate id %s", it.ID)
	}
	r.docs[it.ID] = clone(it)
	return nil
}

func (r *fakeRepo) GetByID(id string) (*models.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.docs[id]
	if !ok {
		return nil, itineraryRepo.ErrNotFound
	}
	return clone(it), nil
}

func (r *fakeRepo) GetByMember(userID string, booked *bool) ([]models.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Itinerary{}
	for _, it := range r.docs {
		if _, ok := it.Member(userID); !ok {
			continue
		}
		if booked != nil && it.IsBooked != *booked {
			continue
		}
		out = append(out, *clone(it))
	}
	return out, nil
}

func (r *fakeRepo) mutate(id string, guard func(*models.Itinerary) bool, fn func(*models.Itinerary)) (*models.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.docs[id]
	if !ok {
		return nil, itineraryRepo.ErrNotFound
	}
	if guard != nil && !guard(it) {
		return nil, itineraryRepo.ErrStateChanged
	}
	fn(it)
	return clone(it), nil
}

// editable mirrors the store's guard: unbooked and no booking attempt in flight.
func editable(it *models.Itinerary) bool {
	return !it.IsBooked && !it.BookingLock.Live(time.Now())
}

// holds reports whether the claim still describes the itinerary.
func holds(it *models.Itinerary, claim itineraryRepo.BookingClaim) bool {
	return it.Pricing != nil && it.Pricing.PricedAt.Equal(claim.PricedAt) && len(it.Users) == claim.Travelers
}

func (r *fakeRepo) SetFlights(id string, flights []models.FlightOption) (*models.Itinerary, error) {
	return r.mutate(id, editable, func(it *models.Itinerary) {
		it.Flights = append([]models.FlightOption{}, flights...)
		it.Pricing = nil
	})
}

func (r *fakeRepo) SetPricing(id string, p *models.PricingSnapshot) (*models.Itinerary, error) {
	return r.mutate(id, editable, func(it *models.Itinerary) { it.Pricing = p })
}

func (r *fakeRepo) BeginBooking(id string, claim itineraryRepo.BookingClaim) (*models.Itinerary, error) {
	guard := func(it *models.Itinerary) bool {
		orphaned := it.LastBookingFailure != nil && it.LastBookingFailure.Confirmation != nil
		return editable(it) && !orphaned && holds(it, claim)
	}
	return r.mutate(id, guard, func(it *models.Itinerary) {
		it.BookingLock = &models.BookingLock{Token: claim.Token, StartedAt: time.Now().UTC()}
	})
}

func (r *fakeRepo) MarkBooked(id string, claim itineraryRepo.BookingClaim, b *models.BookingRecord) (*models.Itinerary, error) {
	if r.markErr != nil {
		return nil, r.markErr
	}
	guard := func(it *models.Itinerary) bool {
		return !it.IsBooked && it.BookingLock != nil && it.BookingLock.Token == claim.Token && holds(it, claim)
	}
	return r.mutate(id, guard, func(it *models.Itinerary) {
		it.Booking = b
		it.IsBooked = true
		it.LastBookingFailure = nil
		it.BookingLock = nil
	})
}

func (r *fakeRepo) RecordBookingFailure(id string, claim itineraryRepo.BookingClaim, f *models.BookingFailure) (*models.Itinerary, error) {
	guard := func(it *models.Itinerary) bool {
		return it.BookingLock != nil && it.BookingLock.Token == claim.Token
	}
	return r.mutate(id, guard, func(it *models.Itinerary) {
		it.LastBookingFailure = f
		it.BookingLock = nil
	})
}

func (r *fakeRepo) PushItem(id string, c models.Collection, item models.CollectionItem) (*models.Itinerary, error) {
	return r.mutate(id, nil, func(it *models.Itinerary) {
		it.SetItems(c, append(it.Items(c), item))
	})
}

func (r *fakeRepo) PullItem(id string, c models.Collection, itemID string) (*models.Itinerary, error) {
	return r.mutate(id, nil, func(it *models.Itinerary) {
		kept := []models.CollectionItem{}
		for _, item := range it.Items(c) {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		it.SetItems(c, kept)
	})
}

func (r *fakeRepo) AddMember(id string, entry models.RosterEntry) (*models.Itinerary, error) {
	guard := func(it *models.Itinerary) bool {
		_, member := it.Member(entry.UserID)
		return member || !it.BookingLock.Live(time.Now())
	}
	return r.mutate(id, guard, func(it *models.Itinerary) {
		if _, ok := it.Member(entry.UserID); !ok {
			it.Users = append(it.Users, entry)
		}
	})
}

func (r *fakeRepo) SetTravelerInfo(id, userID string, info *models.TravelerInfo) (*models.Itinerary, error) {
	guard := func(it *models.Itinerary) bool {
		_, member := it.Member(userID)
		return member && !it.BookingLock.Live(time.Now())
	}
	return r.mutate(id, guard, func(it *models.Itinerary) {
		m, _ := it.Member(userID)
		m.TravelerInfo = info
	})
}

type fakeUsers struct {
	users map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByIDs(ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUsers) Create(u *models.User) error {
	f.users[u.ID] = *u
	return nil
}

// stubGDS prices every request for a fixed number of travelers. onBook runs
// while the order is with the provider.
type stubGDS struct {
	travelers  int
	priceErr   error
	bookErr    error
	priceCalls int
	bookCalls  int
	lastOrder  models.FlightOrderRequest
	onBook     func()
}

func (g *stubGDS) PriceOffer(_ context.Context, flights []models.FlightOption) (*models.PricingSnapshot, error) {
	g.priceCalls++
	if g.priceErr != nil {
		return nil, g.priceErr
	}
	offer := models.FlightOffer{ID: "1", Price: models.OfferPrice{Currency: "USD", Total: "500.00", GrandTotal: "500.00"}}
	for i := 1; i <= g.travelers; i++ {
		offer.TravelerPricings = append(offer.TravelerPricings, models.TravelerPricing{
			TravelerID: fmt.Sprint(i), TravelerType: "ADULT",
		})
	}
	return &models.PricingSnapshot{Type: "flight-offers-pricing", FlightOffers: []models.FlightOffer{offer}, PricedAt: time.Now()}, nil
}

func (g *stubGDS) CreateBooking(_ context.Context, order models.FlightOrderRequest) (*models.BookingConfirmation, error) {
	g.bookCalls++
	g.lastOrder = order
	if hook := g.onBook; hook != nil {
		g.onBook = nil
		hook()
	}
	if g.bookErr != nil {
		return nil, g.bookErr
	}
	return &models.BookingConfirmation{OrderID: "order-1"}, nil
}

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *stubEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprint(len(e.tasks)), Type: task.Type()}, nil
}

type fixture struct {
	svc      *DefaultItineraryService
	repo     *fakeRepo
	users    *fakeUsers
	cache    *providercache.MemoryCache
	gds      *stubGDS
	enqueuer *stubEnqueuer
}

const (
	adminID = "user-admin"
	guestID = "user-guest"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newFakeRepo(),
		cache:    providercache.NewMemoryCache(100, 0),
		gds:      &stubGDS{travelers: 1},
		enqueuer: &stubEnqueuer{},
	}
	f.users = newFakeUsers(
		models.User{ID: adminID, Email: "admin@example.com"},
		models.User{ID: guestID, Email: "guest@example.com"},
	)
	f.svc = NewItineraryService(f.repo, f.users, f.cache, f.gds, f.enqueuer, Operator{Company: "Itinera", Remark: "TEST"}, zap.NewNop())
	return f
}

func (f *fixture) create(t *testing.T) *models.Itinerary {
	t.Helper()
	it, err := f.svc.Create(context.Background(), adminID, "Summer trip")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return it
}

func (f *fixture) cacheFlight(t *testing.T, legs ...[2]string) string {
	t.Helper()
	opt := models.FlightOption{Price: 250, Adults: 1}
	for _, l := range legs {
		opt.Flights = append(opt.Flights, models.FlightLeg{Airline: l[0], FlightNumber: l[1]})
	}
	key := search.FlightKey(opt.Flights)
	opt.ID = key
	if err := f.cache.Put(context.Background(), models.KindFlight, key, models.NewFlightResult(key, opt)); err != nil {
		t.Fatalf("cache put: %v", err)
	}
	return key
}

func boolPtr(b bool) *bool { return &b }

func validInfo(email string) *models.TravelerInfo {
	return &models.TravelerInfo{
		DateOfBirth: "1990-04-12",
		Name:        &models.TravelerName{FirstName: "Ada", LastName: "Lovelace"},
		Gender:      models.GenderFemale,
		Contact: &models.TravelerContact{
			EmailAddress: email,
			Phones:       []models.Phone{{DeviceType: models.DeviceTypeMobile, CountryCallingCode: "44", Number: "7700900123"}},
		},
		Documents: []models.IdentityDocument{{
			DocumentType: "PASSPORT", BirthPlace: "London", IssuanceLocation: "London",
			IssuanceDate: "2020-01-01", Number: "123456789", ExpiryDate: "2030-01-01",
			IssuanceCountry: "GB", ValidityCountry: "GB", Nationality: "GB", Holder: boolPtr(true),
		}},
	}
}
