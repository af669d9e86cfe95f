// Package memory holds map-backed repositories with the same contracts as the
// Postgres store. Service and handler tests run against it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/google/uuid"
)

// Store keeps users and attendance records behind one mutex.
type Store struct {
	mu          sync.RWMutex
	loc         *time.Location
	users       map[string]user.User
	userOrder   []string
	attendances map[string]attendance.Attendance // keyed by user id + date
	seq         int
}

func NewStore(loc *time.Location) *Store {
	return &Store{
		loc:         loc,
		users:       make(map[string]user.User),
		attendances: make(map[string]attendance.Attendance),
	}
}

// WithinTx implements database.Transactor without isolation.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) Users() user.UserRepository { return &userRepository{s} }

func (s *Store) Attendance() attendance.AttendanceRepository { return &attendanceRepository{s} }

func (s *Store) dayKey(userID string, day time.Time) string {
	return userID + "|" + calendar.FormatDate(day.In(s.loc))
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
		if u.EmployeeID != "" && existing.EmployeeID == u.EmployeeID {
			return user.User{}, user.ErrEmployeeIDExists
		}
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.EmployeeID == "" {
		r.s.seq++
		u.EmployeeID = fmt.Sprintf("EMP%03d", r.s.seq)
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	r.s.users[u.ID] = u
	r.s.userOrder = append(r.s.userOrder, u.ID)
	return u, nil
}

func (r *userRepository) find(match func(user.User) bool) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(_ context.Context, id string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *userRepository) GetByEmployeeID(_ context.Context, employeeID string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.EmployeeID == employeeID })
}

func (r *userRepository) ListByRole(_ context.Context, role user.Role) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []user.User{}
	for _, id := range r.s.userOrder {
		if u := r.s.users[id]; u.Role == role {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type attendanceRepository struct{ s *Store }

// join copies the owning user's identity onto a record. Caller holds the lock.
func (r *attendanceRepository) join(a attendance.Attendance) attendance.Attendance {
	if u, ok := r.s.users[a.UserID]; ok {
		a.EmployeeName = &u.Name
		a.EmployeeEmail = &u.Email
		a.EmployeeCode = &u.EmployeeID
		a.EmployeeDepartment = &u.Department
	}
	return a
}

func (r *attendanceRepository) GetByUserAndDate(_ context.Context, userID string, day time.Time) (*attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendances[r.s.dayKey(userID, day)]
	if !ok {
		return nil, nil
	}
	a = r.join(a)
	return &a, nil
}

func (r *attendanceRepository) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := r.s.dayKey(a.UserID, a.Date)
	if _, exists := r.s.attendances[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Date = calendar.StartOfDay(a.Date.In(r.s.loc))
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now

	r.s.attendances[key] = a
	return a, nil
}

func (r *attendanceRepository) Update(_ context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := r.s.dayKey(a.UserID, a.Date)
	existing, ok := r.s.attendances[key]
	if !ok || existing.ID != a.ID {
		return attendance.ErrAttendanceNotFound
	}
	if existing.CheckOutTime != nil {
		return attendance.ErrAlreadyCheckedOut
	}

	existing.CheckInTime = a.CheckInTime
	existing.CheckOutTime = a.CheckOutTime
	existing.Status = a.Status
	existing.TotalHours = a.TotalHours
	existing.UpdatedAt = time.Now()
	r.s.attendances[key] = existing
	return nil
}

func (r *attendanceRepository) collect(match func(attendance.Attendance) bool) []attendance.Attendance {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []attendance.Attendance{}
	for _, a := range r.s.attendances {
		a = r.join(a)
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r *attendanceRepository) inRange(a attendance.Attendance, start, end time.Time) bool {
	d := calendar.FormatDate(a.Date)
	return d >= calendar.FormatDate(start.In(r.s.loc)) && d <= calendar.FormatDate(end.In(r.s.loc))
}

func newestFirst(records []attendance.Attendance) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return strings.Compare(records[i].UserID, records[j].UserID) < 0
	})
}

func (r *attendanceRepository) ListByUser(_ context.Context, userID string, start, end time.Time, limit int) ([]attendance.Attendance, error) {
	out := r.collect(func(a attendance.Attendance) bool {
		return a.UserID == userID && r.inRange(a, start, end)
	})
	newestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *attendanceRepository) ListByDate(_ context.Context, day time.Time) ([]attendance.Attendance, error) {
	out := r.collect(func(a attendance.Attendance) bool { return r.inRange(a, day, day) })
	newestFirst(out)
	return out, nil
}

func (r *attendanceRepository) ListByRange(_ context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	out := r.collect(func(a attendance.Attendance) bool { return r.inRange(a, start, end) })
	newestFirst(out)
	return out, nil
}

func (r *attendanceRepository) List(_ context.Context, f attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	out := r.collect(func(a attendance.Attendance) bool {
		if f.StartDate != nil && calendar.FormatDate(a.Date) < calendar.FormatDate(f.StartDate.In(r.s.loc)) {
			return false
		}
		if f.EndDate != nil && calendar.FormatDate(a.Date) > calendar.FormatDate(f.EndDate.In(r.s.loc)) {
			return false
		}
		if f.Status != nil && a.Status != *f.Status {
			return false
		}
		if f.EmployeeID != nil && (a.EmployeeCode == nil || *a.EmployeeCode != *f.EmployeeID) {
			return false
		}
		if f.Department != nil && (a.EmployeeDepartment == nil || *a.EmployeeDepartment != *f.Department) {
			return false
		}
		return true
	})
	newestFirst(out)
	return out, nil
}
