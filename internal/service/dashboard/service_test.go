package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// mapCache round-trips values through JSON like the Redis cache does.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
}

func newMapCache() *mapCache { return &mapCache{entries: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type fixture struct {
	store *memory.Store
	cache *mapCache
	svc   dashboard.DashboardService
	now   time.Time
}

// Wednesday, 12 June 2024 14:00 WIB
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(wib),
		cache: newMapCache(),
		now:   time.Date(2024, time.June, 12, 14, 0, 0, 0, wib),
	}
	f.svc = NewDashboardService(f.store.Attendance(), f.store.Users(), f.cache, Config{
		Location: wib,
		Now:      func() time.Time { return f.now },
		CacheTTL: time.Minute,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, name, department string, role user.Role) user.User {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), user.User{
		Name: name, Email: name + "@example.com", Role: role, Department: department,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) seed(t *testing.T, userID string, day, hour, minute int, hours int) {
	t.Helper()
	in := time.Date(2024, time.June, day, hour, minute, 0, 0, wib)
	a := attendance.Attendance{UserID: userID, Date: in, CheckInTime: &in}
	if hours > 0 {
		out := in.Add(time.Duration(hours) * time.Hour)
		a.CheckOutTime = &out
	}
	a.DetermineStatus(wib)
	a.CalculateTotalHours()
	_, err := f.store.Attendance().Create(context.Background(), a)
	require.NoError(t, err)
}

func TestGetEmployeeDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("not checked in today", func(t *testing.T) {
		f := newFixture(t)
		u := f.addUser(t, "ada", "Engineering", user.RoleEmployee)
		f.seed(t, u.ID, 3, 8, 30, 8) // outside the recent window
		f.seed(t, u.ID, 10, 9, 30, 8)
		f.seed(t, u.ID, 11, 8, 0, 9)

		resp, err := f.svc.GetEmployeeDashboard(ctx, u.ID)
		require.NoError(t, err)

		assert.Equal(t, "2024-06-12", resp.Today.Date)
		assert.False(t, resp.Today.IsCheckedIn)
		assert.False(t, resp.Today.IsCheckedOut)
		assert.Equal(t, dashboard.StatusNotCheckedIn, resp.Today.Status)
		assert.Nil(t, resp.Today.CheckInTime)

		// June 3..12 has 8 working days, 3 recorded
		assert.Equal(t, 8, resp.Monthly.WorkingDays)
		assert.Equal(t, 2, resp.Monthly.Present)
		assert.Equal(t, 1, resp.Monthly.Late)
		assert.Equal(t, 5, resp.Monthly.Absent)
		assert.Equal(t, 25.0, resp.Monthly.TotalHours)

		require.Len(t, resp.RecentAttendance, 2)
		assert.Equal(t, "2024-06-11", resp.RecentAttendance[0].Date)
		assert.Equal(t, "2024-06-10", resp.RecentAttendance[1].Date)
		assert.Equal(t, attendance.StatusLate, resp.RecentAttendance[1].Status)
	})

	t.Run("recent window is seven calendar days", func(t *testing.T) {
		f := newFixture(t)
		u := f.addUser(t, "ada", "Engineering", user.RoleEmployee)
		f.seed(t, u.ID, 5, 8, 0, 8) // today-7
		f.seed(t, u.ID, 6, 8, 0, 8) // today-6

		resp, err := f.svc.GetEmployeeDashboard(ctx, u.ID)
		require.NoError(t, err)

		require.Len(t, resp.RecentAttendance, 1)
		assert.Equal(t, "2024-06-06", resp.RecentAttendance[0].Date)
	})

	t.Run("checked in today", func(t *testing.T) {
		f := newFixture(t)
		u := f.addUser(t, "ada", "Engineering", user.RoleEmployee)
		f.seed(t, u.ID, 12, 12, 30, 0)

		resp, err := f.svc.GetEmployeeDashboard(ctx, u.ID)
		require.NoError(t, err)

		assert.True(t, resp.Today.IsCheckedIn)
		assert.False(t, resp.Today.IsCheckedOut)
		assert.Equal(t, string(attendance.StatusHalfDay), resp.Today.Status)
		require.NotNil(t, resp.Today.CheckInTime)
		require.Len(t, resp.RecentAttendance, 1)
		assert.Equal(t, 1, resp.Monthly.HalfDay)
	})
}

func TestGetManagerDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ada := f.addUser(t, "ada", "Engineering", user.RoleEmployee)
	bob := f.addUser(t, "bob", "Engineering", user.RoleEmployee)
	cyd := f.addUser(t, "cyd", "Design", user.RoleEmployee)
	boss := f.addUser(t, "boss", "Management", user.RoleManager)

	f.seed(t, ada.ID, 12, 8, 45, 0)
	f.seed(t, cyd.ID, 12, 9, 20, 0)
	f.seed(t, boss.ID, 12, 8, 0, 0)
	f.seed(t, bob.ID, 11, 8, 0, 8)
	f.seed(t, ada.ID, 7, 12, 30, 4)

	resp, err := f.svc.GetManagerDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, dashboard.Overview{TotalEmployees: 3, PresentToday: 2, AbsentToday: 1, LateToday: 1}, resp.Overview)

	require.Len(t, resp.AbsentEmployees, 1)
	assert.Equal(t, bob.ID, resp.AbsentEmployees[0].ID)

	// Thu 6, Fri 7, Mon 10, Tue 11, Wed 12
	require.Len(t, resp.WeeklyTrend, 5)
	assert.Equal(t, dashboard.WeeklyTrendPoint{Date: "2024-06-06", DayName: "Thu", Absent: 3}, resp.WeeklyTrend[0])
	assert.Equal(t, dashboard.WeeklyTrendPoint{Date: "2024-06-07", DayName: "Fri", HalfDay: 1, Absent: 2}, resp.WeeklyTrend[1])
	assert.Equal(t, dashboard.WeeklyTrendPoint{Date: "2024-06-11", DayName: "Tue", Present: 1, Absent: 2}, resp.WeeklyTrend[3])
	assert.Equal(t, dashboard.WeeklyTrendPoint{Date: "2024-06-12", DayName: "Wed", Present: 1, Late: 1, Absent: 1}, resp.WeeklyTrend[4])

	assert.Equal(t, []dashboard.DepartmentStat{
		{Department: "Design", Total: 1, Present: 1, Absent: 0},
		{Department: "Engineering", Total: 2, Present: 1, Absent: 1},
	}, resp.DepartmentStats)

	// literal counts, manager record included
	assert.Equal(t, dashboard.MonthlyStats{TotalRecords: 5, Present: 3, Late: 1, HalfDay: 1}, resp.MonthlyStats)
}

func TestGetManagerDashboard_Cache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.addUser(t, "ada", "Engineering", user.RoleEmployee)

	first, err := f.svc.GetManagerDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Overview.PresentToday)
	assert.Equal(t, 1, f.cache.sets)

	// served from cache until invalidated
	f.seed(t, ada.ID, 12, 8, 0, 0)
	cached, err := f.svc.GetManagerDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cached.Overview.PresentToday)
	assert.Equal(t, 1, f.cache.sets)

	require.NoError(t, f.svc.Invalidate(ctx))
	fresh, err := f.svc.GetManagerDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Overview.PresentToday)
	assert.Equal(t, 2, f.cache.sets)
}

func TestGetManagerDashboard_CacheReadFailure(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "ada", "Engineering", user.RoleEmployee)
	f.cache.getErr = errors.New("connection refused")

	resp, err := f.svc.GetManagerDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Overview.TotalEmployees)
}

func TestDepartmentStats_EmptyRoster(t *testing.T) {
	assert.Empty(t, DepartmentStats(nil, nil))
}

func TestWeeklyTrend_SkipsWeekends(t *testing.T) {
	sat := time.Date(2024, time.June, 8, 0, 0, 0, 0, wib)
	sun := sat.AddDate(0, 0, 1)
	mon := sat.AddDate(0, 0, 2)

	points := WeeklyTrend([]time.Time{sat, sun, mon}, make([][]attendance.Attendance, 3), []user.User{{ID: "a"}})
	require.Len(t, points, 1)
	assert.Equal(t, "Mon", points[0].DayName)
	assert.Equal(t, 1, points[0].Absent)
}

func TestWeeklyTrend_IgnoresRecordsOutsideRoster(t *testing.T) {
	mon := time.Date(2024, time.June, 10, 0, 0, 0, 0, wib)
	in := mon.Add(8 * time.Hour)
	records := [][]attendance.Attendance{{
		{UserID: "a", CheckInTime: &in, Status: attendance.StatusPresent},
		{UserID: "boss", CheckInTime: &in, Status: attendance.StatusLate},
	}}

	points := WeeklyTrend([]time.Time{mon}, records, []user.User{{ID: "a"}, {ID: "b"}})
	require.Len(t, points, 1)
	assert.Equal(t, 1, points[0].Present)
	assert.Equal(t, 0, points[0].Late)
	assert.Equal(t, 1, points[0].Absent)
}

// blockingAttendance holds every ListByDate call until release is closed or
// the call's context ends.
type blockingAttendance struct {
	attendance.AttendanceRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingAttendance(repo attendance.AttendanceRepository) *blockingAttendance {
	return &blockingAttendance{
		AttendanceRepository: repo,
		entered:              make(chan struct{}),
		release:              make(chan struct{}),
	}
}

func (b *blockingAttendance) ListByDate(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
	}
	return b.AttendanceRepository.ListByDate(ctx, day)
}

func (f *fixture) blockingService() (*blockingAttendance, dashboard.DashboardService) {
	repo := newBlockingAttendance(f.store.Attendance())
	svc := NewDashboardService(repo, f.store.Users(), f.cache, Config{
		Location: wib,
		Now:      func() time.Time { return f.now },
		CacheTTL: time.Minute,
	})
	return repo, svc
}

func TestGetManagerDashboard_LeaderCancelled(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "ada", "Engineering", user.RoleEmployee)
	repo, svc := f.blockingService()

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.GetManagerDashboard(leaderCtx)
		leaderErr <- err
	}()
	<-repo.entered

	followerCtx, cancelFollower := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFollower()
	type result struct {
		resp dashboard.ManagerDashboardResponse
		err  error
	}
	followerDone := make(chan result, 1)
	go func() {
		resp, err := svc.GetManagerDashboard(followerCtx)
		followerDone <- result{resp, err}
	}()
	// let the follower join the in-flight rebuild
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(repo.release)
	res := <-followerDone
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.resp.Overview.TotalEmployees)
	assert.Equal(t, 1, f.cache.sets)
}

func TestGetManagerDashboard_InvalidatedDuringRebuild(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.addUser(t, "ada", "Engineering", user.RoleEmployee)
	repo, svc := f.blockingService()

	done := make(chan error, 1)
	go func() {
		_, err := svc.GetManagerDashboard(ctx)
		done <- err
	}()
	<-repo.entered

	// a check-in lands while the rebuild is in flight
	f.seed(t, ada.ID, 12, 8, 0, 0)
	require.NoError(t, svc.Invalidate(ctx))

	close(repo.release)
	require.NoError(t, <-done)
	assert.Equal(t, 0, f.cache.sets)

	fresh, err := svc.GetManagerDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Overview.PresentToday)
	assert.Equal(t, 1, f.cache.sets)
}
