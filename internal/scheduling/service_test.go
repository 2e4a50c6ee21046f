package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"clinic-app-server/internal/models"
)

// fakeStore is an in-memory AppointmentStore. It emulates the database
// uniqueness guard: two active appointments can never share a slot key.
type fakeStore struct {
	appts       map[string]models.Appointment
	nextID      int
	listErr     error
	createErr   error
	updateErr   error
	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{appts: make(map[string]models.Appointment)}
}

func (f *fakeStore) List(ctx context.Context, filter Filter) ([]models.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Appointment
	for _, a := range f.appts {
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.Date != "" && a.ScheduledDate != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (f *fakeStore) Create(ctx context.Context, appt *models.Appointment) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if f.slotKeyHeld(appt.SlotKey, "") {
		return ErrSlotTaken
	}
	if appt.ID == "" {
		f.nextID++
		appt.ID = fmt.Sprintf("appt-%d", f.nextID)
	}
	f.appts[appt.ID] = *appt
	return nil
}

func (f *fakeStore) Update(ctx context.Context, appt *models.Appointment) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.appts[appt.ID]; !ok {
		return ErrNotFound
	}
	if f.slotKeyHeld(appt.SlotKey, appt.ID) {
		return ErrSlotTaken
	}
	f.appts[appt.ID] = *appt
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.appts[id]; !ok {
		return ErrNotFound
	}
	delete(f.appts, id)
	return nil
}

func (f *fakeStore) slotKeyHeld(key *string, excludeID string) bool {
	if key == nil {
		return false
	}
	for _, a := range f.appts {
		if a.ID == excludeID || a.SlotKey == nil {
			continue
		}
		if *a.SlotKey == *key {
			return true
		}
	}
	return false
}

type fakeDirectory struct {
	doctors  map[string]models.User
	patients map[string]models.User
}

func (f *fakeDirectory) GetDoctor(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (f *fakeDirectory) GetPatient(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

type fakeExceptions struct {
	excs    []models.AvailabilityException
	listErr error
}

func (f *fakeExceptions) ListForDoctor(ctx context.Context, doctorID, date string) ([]models.AvailabilityException, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.AvailabilityException
	for _, e := range f.excs {
		if e.DoctorID != doctorID {
			continue
		}
		if date != "" && e.ScheduledDate != date {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeExceptions) Create(ctx context.Context, exc *models.AvailabilityException) error {
	if exc.ID == "" {
		exc.ID = fmt.Sprintf("exc-%d", len(f.excs)+1)
	}
	f.excs = append(f.excs, *exc)
	return nil
}

func (f *fakeExceptions) Delete(ctx context.Context, id string) error {
	for i, e := range f.excs {
		if e.ID == id {
			f.excs = append(f.excs[:i], f.excs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

const (
	doctorSilva = "11111111-1111-1111-1111-111111111111"
	doctorLima  = "22222222-2222-2222-2222-222222222222"
	patientOne  = "33333333-3333-3333-3333-333333333333"
	patientTwo  = "44444444-4444-4444-4444-444444444444"
)

// testClock fixes "today" so past-date validation is deterministic.
var testClock = func() time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}

func newTestService(store *fakeStore, excs *fakeExceptions) *Service {
	dir := &fakeDirectory{
		doctors: map[string]models.User{
			doctorSilva: {
				BaseModel:   models.BaseModel{ID: doctorSilva},
				FirstName:   "Ana",
				LastName:    "Silva",
				Role:        models.RoleDoctor,
				Specialty:   "Cardiology",
				Location:    "Room 12, Main Building",
				PhoneNumber: "+55 11 5555-0101",
			},
			doctorLima: {
				BaseModel: models.BaseModel{ID: doctorLima},
				FirstName: "Bruno",
				LastName:  "Lima",
				Role:      models.RoleDoctor,
				Specialty: "Dermatology",
			},
		},
		patients: map[string]models.User{
			patientOne: {BaseModel: models.BaseModel{ID: patientOne}, Role: models.RolePatient},
			patientTwo: {BaseModel: models.BaseModel{ID: patientTwo}, Role: models.RolePatient},
		},
	}
	svc := NewService(store, excs, dir, DefaultSlotGrid())
	svc.now = testClock
	return svc
}

func mustSchedule(t *testing.T, svc *Service, doctorID, patientID, date, timeSlot string) *models.Appointment {
	t.Helper()
	appt, err := svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Time:      timeSlot,
	})
	if err != nil {
		t.Fatalf("Schedule(%s %s %s): unexpected error: %v", doctorID, date, timeSlot, err)
	}
	return appt
}

func TestScheduleValidation(t *testing.T) {
	cases := []struct {
		name  string
		req   ScheduleRequest
		field string
	}{
		{"missing doctor", ScheduleRequest{PatientID: patientOne, Date: "2024-03-10", Time: "09:00"}, "doctorId"},
		{"missing patient", ScheduleRequest{DoctorID: doctorSilva, Date: "2024-03-10", Time: "09:00"}, "patientId"},
		{"missing date", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Time: "09:00"}, "date"},
		{"missing time", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-03-10"}, "time"},
		{"malformed date", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "10/03/2024", Time: "09:00"}, "date"},
		{"past date", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-02-28", Time: "09:00"}, "date"},
		{"off-grid time", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-03-10", Time: "09:17"}, "time"},
		{"before opening", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-03-10", Time: "07:30"}, "time"},
		{"after closing", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-03-10", Time: "18:00"}, "time"},
		{"free-text time", ScheduleRequest{DoctorID: doctorSilva, PatientID: patientOne, Date: "2024-03-10", Time: "nineish"}, "time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, &fakeExceptions{})

			_, err := svc.Schedule(context.Background(), tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != tc.field {
				t.Fatalf("expected FieldError on %q, got %v", tc.field, err)
			}
			// Validation failures are local; no persistence call may be issued.
			if store.createCalls != 0 {
				t.Fatalf("expected no store writes, got %d", store.createCalls)
			}
		})
	}
}

func TestScheduleHappyPath(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})

	appt := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	if appt.Status != models.StatusRequested {
		t.Fatalf("expected status requested, got %s", appt.Status)
	}
	if appt.Specialty != "Cardiology" {
		t.Fatalf("expected denormalized specialty, got %q", appt.Specialty)
	}
	if appt.Location != "Room 12, Main Building" || appt.ContactPhone != "+55 11 5555-0101" {
		t.Fatalf("doctor contact fields not denormalized: %+v", appt)
	}
	if appt.SlotKey == nil || *appt.SlotKey != doctorSilva+"|2024-03-10|09:00" {
		t.Fatalf("unexpected slot key: %v", appt.SlotKey)
	}

	// Same doctor, same slot, different patient: rejected.
	_, err := svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  doctorSilva,
		PatientID: patientTwo,
		Date:      "2024-03-10",
		Time:      "09:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// A different doctor is free to take the same date/time.
	mustSchedule(t, svc, doctorLima, patientTwo, "2024-03-10", "09:00")
}

func TestScheduleUnknownDirectoryRefs(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})

	_, err := svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  "99999999-9999-9999-9999-999999999999",
		PatientID: patientOne,
		Date:      "2024-03-10",
		Time:      "09:00",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown doctor, got %v", err)
	}

	_, err = svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  doctorSilva,
		PatientID: "99999999-9999-9999-9999-999999999999",
		Date:      "2024-03-10",
		Time:      "09:00",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown patient, got %v", err)
	}
}

func TestScheduleStoreDetectedConflict(t *testing.T) {
	// The local pre-check can miss a concurrent writer; the store's
	// uniqueness guard must surface the same conflict error.
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	store.createErr = ErrSlotTaken

	_, err := svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  doctorSilva,
		PatientID: patientOne,
		Date:      "2024-03-10",
		Time:      "09:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken from store, got %v", err)
	}
}

func TestScheduleStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	store.listErr = fmt.Errorf("%w: connection refused", ErrStoreUnavailable)

	_, err := svc.Schedule(context.Background(), ScheduleRequest{
		DoctorID:  doctorSilva,
		PatientID: patientOne,
		Date:      "2024-03-10",
		Time:      "09:00",
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if store.createCalls != 0 {
		t.Fatal("no create may be attempted when the conflict check fails")
	}
}

func TestRescheduleSelfExclusion(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	appt := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	// Rescheduling to the slot the appointment already occupies must not
	// conflict with itself.
	updated, err := svc.Reschedule(context.Background(), appt.ID, RescheduleRequest{
		Date: "2024-03-10",
		Time: "09:00",
	})
	if err != nil {
		t.Fatalf("self-reschedule failed: %v", err)
	}
	if updated.Status != models.StatusRequested {
		t.Fatalf("expected status reset to requested, got %s", updated.Status)
	}
}

func TestRescheduleConflictLeavesOriginalUntouched(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")
	mustSchedule(t, svc, doctorSilva, patientTwo, "2024-03-10", "10:00")

	_, err := svc.Reschedule(context.Background(), a.ID, RescheduleRequest{
		Date: "2024-03-10",
		Time: "10:00",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// A must remain at its original slot, unchanged.
	stored, err := svc.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ScheduledDate != "2024-03-10" || stored.ScheduledTime != "09:00" {
		t.Fatalf("appointment mutated after failed reschedule: %s %s", stored.ScheduledDate, stored.ScheduledTime)
	}
	if stored.Status != models.StatusRequested {
		t.Fatalf("status mutated after failed reschedule: %s", stored.Status)
	}
}

func TestRescheduleStatusRules(t *testing.T) {
	for _, status := range []models.AppointmentStatus{
		models.StatusCheckedIn,
		models.StatusCompleted,
		models.StatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, &fakeExceptions{})
			a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

			stored := store.appts[a.ID]
			stored.Status = status
			if status.IsTerminal() {
				stored.SlotKey = nil
			}
			store.appts[a.ID] = stored

			_, err := svc.Reschedule(context.Background(), a.ID, RescheduleRequest{
				Date: "2024-03-11",
				Time: "10:00",
			})
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition from %s, got %v", status, err)
			}
		})
	}

	t.Run("confirmed is reschedulable and resets to requested", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeExceptions{})
		a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")
		if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
			t.Fatalf("Confirm: %v", err)
		}

		updated, err := svc.Reschedule(context.Background(), a.ID, RescheduleRequest{
			Date:   "2024-03-12",
			Time:   "14:30",
			Reason: "doctor asked to move the visit",
		})
		if err != nil {
			t.Fatalf("Reschedule: %v", err)
		}
		if updated.Status != models.StatusRequested {
			t.Fatalf("expected requested after reschedule, got %s", updated.Status)
		}
		if updated.RescheduleReason != "doctor asked to move the visit" {
			t.Fatalf("reschedule reason not recorded: %q", updated.RescheduleReason)
		}
	})
}

func TestCancelReasonEnforcement(t *testing.T) {
	cases := []struct {
		name   string
		reason string
		wantOK bool
	}{
		{"too short", "no", false},
		{"whitespace padding does not count", "   short    ", false},
		{"exactly ten chars", "0123456789", true},
		{"long reason", "patient is travelling that week", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, &fakeExceptions{})
			a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

			cancelled, err := svc.Cancel(context.Background(), a.ID, tc.reason)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected cancel to succeed, got %v", err)
				}
				if cancelled.Status != models.StatusCancelled {
					t.Fatalf("expected cancelled, got %s", cancelled.Status)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			// Status must be unchanged after the rejected cancel.
			stored, _ := svc.GetByID(context.Background(), a.ID)
			if stored.Status != models.StatusRequested {
				t.Fatalf("status changed after rejected cancel: %s", stored.Status)
			}
		})
	}
}

func TestCancelPreservesSlotFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	cancelled, err := svc.Cancel(context.Background(), a.ID, "patient moved to another city")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.ScheduledDate != "2024-03-10" || cancelled.ScheduledTime != "09:00" {
		t.Fatal("cancel must not alter date/time")
	}
	if cancelled.DoctorID != doctorSilva || cancelled.PatientID != patientOne {
		t.Fatal("cancel must not alter doctor/patient")
	}
	if cancelled.CancelReason != "patient moved to another city" {
		t.Fatalf("reason not recorded: %q", cancelled.CancelReason)
	}
	if cancelled.SlotKey != nil {
		t.Fatal("cancelled appointment must release its slot key")
	}
}

func TestCancelTerminalStates(t *testing.T) {
	for _, terminal := range []models.AppointmentStatus{models.StatusCancelled, models.StatusCompleted} {
		t.Run(string(terminal), func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, &fakeExceptions{})
			a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

			stored := store.appts[a.ID]
			stored.Status = terminal
			stored.SlotKey = nil
			stored.CancelReason = "original reason stays"
			store.appts[a.ID] = stored

			_, err := svc.Cancel(context.Background(), a.ID, "this should be rejected")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			after := store.appts[a.ID]
			if after.Status != terminal || after.CancelReason != "original reason stays" {
				t.Fatalf("terminal appointment mutated: %+v", after)
			}
		})
	}
}

func TestFreedSlotReuse(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-15", "14:30")

	if _, err := svc.Cancel(context.Background(), a.ID, "conflict with work meeting"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// The cancelled appointment no longer holds the slot.
	mustSchedule(t, svc, doctorSilva, patientTwo, "2024-03-15", "14:30")
}

func TestStaffTransitions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	ctx := context.Background()
	a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	// Out-of-order transitions are rejected.
	if _, err := svc.CheckIn(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("check-in before confirm: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Complete(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete before check-in: expected ErrInvalidTransition, got %v", err)
	}

	confirmed, err := svc.Confirm(ctx, a.ID)
	if err != nil || confirmed.Status != models.StatusConfirmed {
		t.Fatalf("Confirm: %v status=%v", err, confirmed)
	}
	checkedIn, err := svc.CheckIn(ctx, a.ID)
	if err != nil || checkedIn.Status != models.StatusCheckedIn {
		t.Fatalf("CheckIn: %v", err)
	}
	// A checked-in appointment still holds its slot.
	if checkedIn.SlotKey == nil {
		t.Fatal("checked-in appointment must keep its slot key")
	}

	completed, err := svc.Complete(ctx, a.ID)
	if err != nil || completed.Status != models.StatusCompleted {
		t.Fatalf("Complete: %v", err)
	}
	if completed.SlotKey != nil {
		t.Fatal("completed appointment must release its slot key")
	}

	// Terminal: no transition works anymore.
	if _, err := svc.Confirm(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("confirm after complete: expected ErrInvalidTransition, got %v", err)
	}
}

func TestScheduleBlockedByException(t *testing.T) {
	t.Run("single slot", func(t *testing.T) {
		store := newFakeStore()
		excs := &fakeExceptions{excs: []models.AvailabilityException{{
			BaseModel:     models.BaseModel{ID: "exc-1"},
			DoctorID:      doctorSilva,
			ScheduledDate: "2024-03-10",
			ScheduledTime: "09:00",
		}}}
		svc := newTestService(store, excs)

		_, err := svc.Schedule(context.Background(), ScheduleRequest{
			DoctorID:  doctorSilva,
			PatientID: patientOne,
			Date:      "2024-03-10",
			Time:      "09:00",
		})
		if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
		// The neighbouring slot stays bookable.
		mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:30")
	})

	t.Run("whole day", func(t *testing.T) {
		store := newFakeStore()
		excs := &fakeExceptions{excs: []models.AvailabilityException{{
			BaseModel:     models.BaseModel{ID: "exc-1"},
			DoctorID:      doctorSilva,
			ScheduledDate: "2024-03-10",
		}}}
		svc := newTestService(store, excs)

		_, err := svc.Schedule(context.Background(), ScheduleRequest{
			DoctorID:  doctorSilva,
			PatientID: patientOne,
			Date:      "2024-03-10",
			Time:      "11:00",
		})
		if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken on blocked day, got %v", err)
		}
		// Other days are unaffected.
		mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-11", "11:00")
	})
}

func TestOpenSlots(t *testing.T) {
	store := newFakeStore()
	excs := &fakeExceptions{excs: []models.AvailabilityException{{
		BaseModel:     models.BaseModel{ID: "exc-1"},
		DoctorID:      doctorSilva,
		ScheduledDate: "2024-03-10",
		ScheduledTime: "08:30",
	}}}
	svc := newTestService(store, excs)
	mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	cancelledLater := mustSchedule(t, svc, doctorSilva, patientTwo, "2024-03-10", "10:00")
	if _, err := svc.Cancel(context.Background(), cancelledLater.ID, "rebooked for another week"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	open, err := svc.OpenSlots(context.Background(), doctorSilva, "2024-03-10")
	if err != nil {
		t.Fatalf("OpenSlots: %v", err)
	}

	openSet := make(map[string]bool, len(open))
	for _, s := range open {
		openSet[s] = true
	}
	if openSet["08:30"] {
		t.Fatal("excepted slot must not be open")
	}
	if openSet["09:00"] {
		t.Fatal("booked slot must not be open")
	}
	if !openSet["10:00"] {
		t.Fatal("cancelled booking must free its slot")
	}
	if !openSet["08:00"] || !openSet["17:30"] {
		t.Fatal("grid edges must be open")
	}
	if openSet["18:00"] {
		t.Fatal("closing time is not a bookable slot")
	}
}

func TestBlockSlotValidation(t *testing.T) {
	store := newFakeStore()
	excs := &fakeExceptions{}
	svc := newTestService(store, excs)

	if _, err := svc.BlockSlot(context.Background(), "", "2024-03-10", "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing doctor, got %v", err)
	}
	if _, err := svc.BlockSlot(context.Background(), doctorSilva, "bad-date", "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad date, got %v", err)
	}
	if _, err := svc.BlockSlot(context.Background(), doctorSilva, "2024-03-10", "09:13", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for off-grid time, got %v", err)
	}

	exc, err := svc.BlockSlot(context.Background(), doctorSilva, "2024-03-10", "", "conference day")
	if err != nil {
		t.Fatalf("BlockSlot: %v", err)
	}
	if exc.ScheduledTime != "" || exc.Reason != "conference day" {
		t.Fatalf("unexpected exception: %+v", exc)
	}
}

func TestRemove(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExceptions{})
	a := mustSchedule(t, svc, doctorSilva, patientOne, "2024-03-10", "09:00")

	if err := svc.Remove(context.Background(), a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Remove(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}
