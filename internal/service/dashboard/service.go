package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	attendancesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	managerKeyPrefix = "dashboard:manager:"
	trendDays        = 7
	recentDays       = 7
)

// Config holds dashboard service configuration
type Config struct {
	Location *time.Location   // default: time.Local
	Now      func() time.Time // default: time.Now
	CacheTTL time.Duration    // default: 30 seconds
}

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	cache cache.Cache
	sf    singleflight.Group
	cfg   Config

	// mu guards generation and orders rebuild cache writes against Invalidate
	mu         sync.Mutex
	generation uint64
}

func NewDashboardService(
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	c cache.Cache,
	cfg Config,
) dashboard.DashboardService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if c == nil {
		c = cache.Noop{}
	}

	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		cache:                c,
		cfg:                  cfg,
	}
}

func (s *DashboardServiceImpl) clock() time.Time {
	return s.cfg.Now().In(s.cfg.Location)
}

func managerKey(day time.Time) string {
	return managerKeyPrefix + calendar.FormatDate(day)
}

// GetEmployeeDashboard returns today, month-to-date and recent records using parallel queries
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, userID string) (dashboard.EmployeeDashboardResponse, error) {
	now := s.clock()
	today := calendar.StartOfDay(now)
	monthStart, monthEnd := calendar.MonthRange(now.Year(), int(now.Month()), s.cfg.Location)
	recentStart := today.AddDate(0, 0, -(recentDays - 1))

	var (
		todayRecord   *attendance.Attendance
		monthRecords  []attendance.Attendance
		recentRecords []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Today's record
	g.Go(func() error {
		var err error
		todayRecord, err = s.AttendanceRepository.GetByUserAndDate(gCtx, userID, today)
		return err
	})

	// 2. Current month
	g.Go(func() error {
		var err error
		monthRecords, err = s.AttendanceRepository.ListByUser(gCtx, userID, monthStart, monthEnd, 0)
		return err
	})

	// 3. Last 7 calendar days, newest first
	g.Go(func() error {
		var err error
		recentRecords, err = s.AttendanceRepository.ListByUser(gCtx, userID, recentStart, calendar.EndOfDay(today), 0)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("Failed to build employee dashboard", "user_id", userID, "error", err)
		return dashboard.EmployeeDashboardResponse{}, err
	}

	workingDays := calendar.CountWorkingDays(monthStart, calendar.MinTime(monthEnd, now))

	return dashboard.EmployeeDashboardResponse{
		Today: todaySnapshot(today, todayRecord),
		Monthly: dashboard.MonthlySnapshot{
			PersonalSummary: attendancesvc.SummarizePersonal(monthRecords, workingDays),
			WorkingDays:     workingDays,
		},
		RecentAttendance: recent(recentRecords),
	}, nil
}

func todaySnapshot(today time.Time, record *attendance.Attendance) dashboard.TodaySnapshot {
	snap := dashboard.TodaySnapshot{
		Date:         calendar.FormatDate(today),
		IsCheckedIn:  record.IsCheckedIn(),
		IsCheckedOut: record.IsCheckedOut(),
		Status:       dashboard.StatusNotCheckedIn,
	}
	if record != nil {
		snap.CheckInTime = record.CheckInTime
		snap.CheckOutTime = record.CheckOutTime
		snap.Status = string(record.Status)
		snap.TotalHours = record.TotalHours
	}
	return snap
}

func recent(records []attendance.Attendance) []dashboard.RecentAttendance {
	out := make([]dashboard.RecentAttendance, 0, len(records))
	for _, r := range records {
		out = append(out, dashboard.RecentAttendance{
			Date:         calendar.FormatDate(r.Date),
			Status:       r.Status,
			CheckInTime:  r.CheckInTime,
			CheckOutTime: r.CheckOutTime,
			TotalHours:   r.TotalHours,
		})
	}
	return out
}

// GetManagerDashboard serves the team snapshot from cache, coalescing concurrent rebuilds
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context) (dashboard.ManagerDashboardResponse, error) {
	now := s.clock()
	key := managerKey(now)

	var cached dashboard.ManagerDashboardResponse
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.Warn("Failed to read dashboard cache", "key", key, "error", err)
	} else if ok {
		return cached, nil
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	// The rebuild is shared, so it must outlive the caller that started it.
	ch := s.sf.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		buildCtx := context.WithoutCancel(ctx)
		resp, err := s.buildManagerDashboard(buildCtx, now)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// invalidated while building, the snapshot may predate the change
		if s.generation != gen {
			return resp, nil
		}
		if err := s.cache.Set(buildCtx, key, resp, s.cfg.CacheTTL); err != nil {
			slog.Warn("Failed to write dashboard cache", "key", key, "error", err)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return dashboard.ManagerDashboardResponse{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			slog.Error("Failed to build manager dashboard", "error", res.Err)
			return dashboard.ManagerDashboardResponse{}, res.Err
		}
		return res.Val.(dashboard.ManagerDashboardResponse), nil
	}
}

func (s *DashboardServiceImpl) buildManagerDashboard(ctx context.Context, now time.Time) (dashboard.ManagerDashboardResponse, error) {
	today := calendar.StartOfDay(now)
	monthStart, monthEnd := calendar.MonthRange(now.Year(), int(now.Month()), s.cfg.Location)
	days := calendar.LastNDays(today, trendDays)

	var (
		employees     []user.User
		todayRecords  []attendance.Attendance
		monthRecords  []attendance.Attendance
		recordsPerDay = make([][]attendance.Attendance, len(days))
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee roster
	g.Go(func() error {
		var err error
		employees, err = s.UserRepository.ListByRole(gCtx, user.RoleEmployee)
		return err
	})

	// 2. Today's records
	g.Go(func() error {
		var err error
		todayRecords, err = s.AttendanceRepository.ListByDate(gCtx, today)
		return err
	})

	// 3. Current month
	g.Go(func() error {
		var err error
		monthRecords, err = s.AttendanceRepository.ListByRange(gCtx, monthStart, monthEnd)
		return err
	})

	// 4. One query per working day of the trailing week
	for i, day := range days {
		if !calendar.IsWorkingDay(day) {
			continue
		}
		g.Go(func() error {
			records, err := s.AttendanceRepository.ListByDate(gCtx, day)
			if err != nil {
				return err
			}
			recordsPerDay[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dashboard.ManagerDashboardResponse{}, err
	}

	status := attendancesvc.BuildTodayStatus(calendar.FormatDate(today), todayRecords, employees)
	monthly := attendancesvc.CountStatuses(monthRecords)

	return dashboard.ManagerDashboardResponse{
		Overview: dashboard.Overview{
			TotalEmployees: status.TotalEmployees,
			PresentToday:   status.Present,
			AbsentToday:    status.Absent,
			LateToday:      status.LateArrivals,
		},
		WeeklyTrend:     WeeklyTrend(days, recordsPerDay, employees),
		DepartmentStats: DepartmentStats(employees, status.PresentList),
		AbsentEmployees: status.AbsentList,
		MonthlyStats: dashboard.MonthlyStats{
			TotalRecords: len(monthRecords),
			Present:      monthly.Present,
			Late:         monthly.Late,
			HalfDay:      monthly.HalfDay,
		},
	}, nil
}

// Invalidate drops today's manager snapshot
func (s *DashboardServiceImpl) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.cache.Delete(ctx, managerKey(s.clock()))
}

// WeeklyTrend emits one point per working day in days, oldest first. recordsPerDay
// is indexed like days. Only records of roster employees are counted.
func WeeklyTrend(days []time.Time, recordsPerDay [][]attendance.Attendance, employees []user.User) []dashboard.WeeklyTrendPoint {
	roster := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		roster[e.ID] = struct{}{}
	}

	points := []dashboard.WeeklyTrendPoint{}
	for i, day := range days {
		if !calendar.IsWorkingDay(day) {
			continue
		}

		var counts attendance.StatusCounts
		checkedIn := 0
		for _, r := range recordsPerDay[i] {
			// absent is derived from the roster, so present/late/halfDay count roster employees only
			if _, ok := roster[r.UserID]; !ok {
				continue
			}
			counts.Add(r.Status)
			if r.CheckInTime != nil {
				checkedIn++
			}
		}

		points = append(points, dashboard.WeeklyTrendPoint{
			Date:    calendar.FormatDate(day),
			DayName: day.Format("Mon"),
			Present: counts.Present,
			Late:    counts.Late,
			HalfDay: counts.HalfDay,
			Absent:  max(0, len(employees)-checkedIn),
		})
	}
	return points
}

// DepartmentStats seeds every roster department, then counts today's check-ins.
// Departments are ordered by name.
func DepartmentStats(employees []user.User, present []attendance.PresentEntry) []dashboard.DepartmentStat {
	index := make(map[string]*dashboard.DepartmentStat)
	for _, e := range employees {
		stat, ok := index[e.Department]
		if !ok {
			stat = &dashboard.DepartmentStat{Department: e.Department}
			index[e.Department] = stat
		}
		stat.Total++
	}

	for _, p := range present {
		if stat, ok := index[p.Department]; ok {
			stat.Present++
		}
	}

	out := make([]dashboard.DepartmentStat, 0, len(index))
	for _, stat := range index {
		stat.Absent = stat.Total - stat.Present
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
