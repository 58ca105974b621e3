package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// passTx runs the unit of work directly; the fakes have no transactions.
type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeStore is an in-memory implementation of every store interface,
// mimicking the store-level uniqueness constraints with Conflict errors.
type fakeStore struct {
	periods     map[int64]model.Period
	blocks      map[int64]model.TimeBlock
	classrooms  map[int64]model.Classroom
	people      map[int64]model.Person
	reasons     map[int64]model.Reason
	weeks       []model.Week
	sessions    []model.ScheduledSession
	assignments []model.TutorAssignment
	events      []model.AttendanceEvent
	students    []model.StudentAttendance
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		periods:    map[int64]model.Period{1: {ID: 1, Year: 2025}},
		blocks:     map[int64]model.TimeBlock{1: {ID: 1, Weekday: 1, StartHour: 14, StartMinute: 0, DurationMinutes: 45}},
		classrooms: map[int64]model.Classroom{1: {ID: 1, SiteID: 1, InstitutionID: 1, Grade: 4, GroupLabel: "A"}},
		people: map[int64]model.Person{
			3: {ID: 3, FullName: "Carla Nieto", Role: "COORDINATOR", Active: true},
			5: {ID: 5, FullName: "Luis Prada", Role: model.RoleTutor, Active: true},
			7: {ID: 7, FullName: "Marta Rey", Role: model.RoleTutor, Active: true},
			9: {ID: 9, FullName: "Nico Vela", Role: model.RoleStudent, Active: true},
		},
		reasons: map[int64]model.Reason{2: {ID: 2, Code: "TUTOR_SICK", Description: "tutor unavailable"}},
		nextID:  100,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func nop() *zap.Logger { return zap.NewNop() }

// --- PeriodStore / TimeBlockStore / ClassroomStore / PersonStore / ReasonStore

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*model.Period, error) {
	if p, ok := f.periods[id]; ok {
		return &p, nil
	}
	return nil, nil
}

type fakeBlocks struct{ f *fakeStore }

func (b fakeBlocks) GetByID(ctx context.Context, id int64) (*model.TimeBlock, error) {
	if blk, ok := b.f.blocks[id]; ok {
		return &blk, nil
	}
	return nil, nil
}

type fakeClassrooms struct{ f *fakeStore }

func (c fakeClassrooms) GetByID(ctx context.Context, id int64) (*model.Classroom, error) {
	if cl, ok := c.f.classrooms[id]; ok {
		return &cl, nil
	}
	return nil, nil
}

type fakePeople struct{ f *fakeStore }

func (p fakePeople) GetByID(ctx context.Context, id int64) (*model.Person, error) {
	if per, ok := p.f.people[id]; ok {
		return &per, nil
	}
	return nil, nil
}

type fakeReasons struct{ f *fakeStore }

func (r fakeReasons) GetByID(ctx context.Context, id int64) (*model.Reason, error) {
	if rs, ok := r.f.reasons[id]; ok {
		return &rs, nil
	}
	return nil, nil
}

// --- WeekStore

type fakeWeeks struct{ f *fakeStore }

func (w fakeWeeks) InsertBatch(ctx context.Context, weeks []model.Week) error {
	for i := range weeks {
		weeks[i].ID = w.f.id()
		w.f.weeks = append(w.f.weeks, weeks[i])
	}
	return nil
}

func (w fakeWeeks) CountByPeriod(ctx context.Context, periodID int64) (int, error) {
	n := 0
	for i := range w.f.weeks {
		if w.f.weeks[i].PeriodID == periodID {
			n++
		}
	}
	return n, nil
}

func (w fakeWeeks) SessionRefCount(ctx context.Context, periodID int64) (int, error) {
	n := 0
	for i := range w.f.sessions {
		wk := w.byID(w.f.sessions[i].WeekID)
		if wk != nil && wk.PeriodID == periodID {
			n++
		}
	}
	return n, nil
}

func (w fakeWeeks) DeleteByPeriod(ctx context.Context, periodID int64) (int64, error) {
	var kept []model.Week
	var deleted int64
	for i := range w.f.weeks {
		if w.f.weeks[i].PeriodID == periodID {
			deleted++
		} else {
			kept = append(kept, w.f.weeks[i])
		}
	}
	w.f.weeks = kept
	return deleted, nil
}

func (w fakeWeeks) GetByID(ctx context.Context, id int64) (*model.Week, error) {
	return w.byID(id), nil
}

func (w fakeWeeks) byID(id int64) *model.Week {
	for i := range w.f.weeks {
		if w.f.weeks[i].ID == id {
			wk := w.f.weeks[i]
			return &wk
		}
	}
	return nil
}

func (w fakeWeeks) FindContaining(ctx context.Context, d time.Time) (*model.Week, error) {
	for i := range w.f.weeks {
		if w.f.weeks[i].Contains(d) {
			wk := w.f.weeks[i]
			return &wk, nil
		}
	}
	return nil, nil
}

func (w fakeWeeks) FindContainingInPeriod(ctx context.Context, periodID int64, d time.Time) (*model.Week, error) {
	for i := range w.f.weeks {
		if w.f.weeks[i].PeriodID == periodID && w.f.weeks[i].Contains(d) {
			wk := w.f.weeks[i]
			return &wk, nil
		}
	}
	return nil, nil
}

func (w fakeWeeks) Bounds(ctx context.Context, periodID int64) (*model.Week, *model.Week, error) {
	var first, last *model.Week
	for i := range w.f.weeks {
		wk := w.f.weeks[i]
		if wk.PeriodID != periodID {
			continue
		}
		if first == nil || wk.StartDate.Before(first.StartDate) {
			c := wk
			first = &c
		}
		if last == nil || wk.StartDate.After(last.StartDate) {
			c := wk
			last = &c
		}
	}
	return first, last, nil
}

// --- SessionStore

type fakeSessions struct{ f *fakeStore }

func (s fakeSessions) Insert(ctx context.Context, sess *model.ScheduledSession) error {
	for i := range s.f.sessions {
		e := s.f.sessions[i]
		if e.ClassroomID == sess.ClassroomID && e.TimeBlockID == sess.TimeBlockID && e.WeekID == sess.WeekID {
			return model.Conflict("insert session: already exists (scheduled_sessions_triple_key)")
		}
	}
	sess.ID = s.f.id()
	s.f.sessions = append(s.f.sessions, model.ScheduledSession{
		ID: sess.ID, ClassroomID: sess.ClassroomID, TimeBlockID: sess.TimeBlockID, WeekID: sess.WeekID,
	})
	return nil
}

func (s fakeSessions) GetByID(ctx context.Context, id int64) (*model.ScheduledSession, error) {
	for i := range s.f.sessions {
		if s.f.sessions[i].ID == id {
			c := s.f.sessions[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s fakeSessions) GetByTriple(ctx context.Context, classroomID, timeBlockID, weekID int64) (*model.ScheduledSession, error) {
	for i := range s.f.sessions {
		e := s.f.sessions[i]
		if e.ClassroomID == classroomID && e.TimeBlockID == timeBlockID && e.WeekID == weekID {
			return &e, nil
		}
	}
	return nil, nil
}

func (s fakeSessions) Delete(ctx context.Context, id int64) error {
	for i := range s.f.sessions {
		if s.f.sessions[i].ID == id {
			s.f.sessions = append(s.f.sessions[:i], s.f.sessions[i+1:]...)
			return nil
		}
	}
	return model.NotFound("session %d not found", id)
}

func (s fakeSessions) ListByClassroom(ctx context.Context, classroomID int64) ([]model.ScheduledSession, error) {
	details, err := s.ListDetailsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ScheduledSession, 0, len(details))
	for i := range details {
		out = append(out, details[i].Session)
	}
	return out, nil
}

func (s fakeSessions) ListDetailsByClassroom(ctx context.Context, classroomID int64) ([]model.SessionDetail, error) {
	return s.details(classroomID, 0), nil
}

func (s fakeSessions) ListDetailsByClassroomPeriod(ctx context.Context, classroomID, periodID int64) ([]model.SessionDetail, error) {
	return s.details(classroomID, periodID), nil
}

func (s fakeSessions) details(classroomID, periodID int64) []model.SessionDetail {
	weeks := fakeWeeks{s.f}
	var out []model.SessionDetail
	for i := range s.f.sessions {
		sess := s.f.sessions[i]
		if sess.ClassroomID != classroomID {
			continue
		}
		wk := weeks.byID(sess.WeekID)
		if periodID != 0 && (wk == nil || wk.PeriodID != periodID) {
			continue
		}
		if blk, ok := s.f.blocks[sess.TimeBlockID]; ok {
			b := blk
			sess.Block = &b
		}
		sess.Week = wk
		d := model.SessionDetail{Session: sess}
		for j := range s.f.events {
			if s.f.events[j].SessionID == sess.ID {
				ev := s.f.events[j]
				d.Event = &ev
				break
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(a, b int) bool {
		wa, wb := out[a].Session.Week, out[b].Session.Week
		if wa != nil && wb != nil && !wa.StartDate.Equal(wb.StartDate) {
			return wa.StartDate.Before(wb.StartDate)
		}
		ba, bb := out[a].Session.Block, out[b].Session.Block
		if ba != nil && bb != nil && ba.Weekday != bb.Weekday {
			return ba.Weekday < bb.Weekday
		}
		if ba != nil && bb != nil {
			return ba.StartHour*60+ba.StartMinute < bb.StartHour*60+bb.StartMinute
		}
		return out[a].Session.ID < out[b].Session.ID
	})
	return out
}

// --- TutorAssignmentStore

type fakeAssignments struct{ f *fakeStore }

func (a fakeAssignments) Insert(ctx context.Context, as *model.TutorAssignment) error {
	for i := range a.f.assignments {
		e := a.f.assignments[i]
		if e.ClassroomID == as.ClassroomID && e.AssignedUntil == nil {
			return model.Conflict("insert tutor assignment: already exists (tutor_assignments_open_key)")
		}
	}
	as.ID = a.f.id()
	a.f.assignments = append(a.f.assignments, *as)
	return nil
}

func (a fakeAssignments) MaxSeq(ctx context.Context, tutorID, classroomID int64) (int, error) {
	max := 0
	for i := range a.f.assignments {
		e := a.f.assignments[i]
		if e.TutorID == tutorID && e.ClassroomID == classroomID && e.Seq > max {
			max = e.Seq
		}
	}
	return max, nil
}

func (a fakeAssignments) FindOpenByClassroom(ctx context.Context, classroomID int64) (*model.TutorAssignment, error) {
	for i := range a.f.assignments {
		e := a.f.assignments[i]
		if e.ClassroomID == classroomID && e.AssignedUntil == nil {
			return &e, nil
		}
	}
	return nil, nil
}

func (a fakeAssignments) FindOpenByTutorClassroom(ctx context.Context, tutorID, classroomID int64) (*model.TutorAssignment, error) {
	var best *model.TutorAssignment
	for i := range a.f.assignments {
		e := a.f.assignments[i]
		if e.TutorID == tutorID && e.ClassroomID == classroomID && e.AssignedUntil == nil {
			if best == nil || e.Seq > best.Seq {
				c := e
				best = &c
			}
		}
	}
	return best, nil
}

func (a fakeAssignments) Close(ctx context.Context, id int64, until time.Time) error {
	for i := range a.f.assignments {
		if a.f.assignments[i].ID == id && a.f.assignments[i].AssignedUntil == nil {
			u := until
			a.f.assignments[i].AssignedUntil = &u
			return nil
		}
	}
	return model.NotFound("open assignment %d not found", id)
}

func (a fakeAssignments) ListOpenByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	var out []model.TutorAssignment
	for i := range a.f.assignments {
		e := a.f.assignments[i]
		if e.ClassroomID == classroomID && e.AssignedUntil == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a fakeAssignments) ListByClassroom(ctx context.Context, classroomID int64) ([]model.TutorAssignment, error) {
	var out []model.TutorAssignment
	for i := range a.f.assignments {
		if a.f.assignments[i].ClassroomID == classroomID {
			out = append(out, a.f.assignments[i])
		}
	}
	sort.Slice(out, func(x, y int) bool {
		if !out[x].AssignedFrom.Equal(out[y].AssignedFrom) {
			return out[x].AssignedFrom.After(out[y].AssignedFrom)
		}
		return out[x].Seq > out[y].Seq
	})
	return out, nil
}

// --- AttendanceStore

type fakeEvents struct{ f *fakeStore }

func (e fakeEvents) Insert(ctx context.Context, ev *model.AttendanceEvent) error {
	for i := range e.f.events {
		if e.f.events[i].SessionID == ev.SessionID {
			return model.Conflict("insert attendance event: already exists (attendance_events_session_key)")
		}
	}
	ev.ID = e.f.id()
	e.f.events = append(e.f.events, *ev)
	return nil
}

func (e fakeEvents) GetByID(ctx context.Context, id int64) (*model.AttendanceEvent, error) {
	for i := range e.f.events {
		if e.f.events[i].ID == id {
			c := e.f.events[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (e fakeEvents) GetBySessionID(ctx context.Context, sessionID int64) (*model.AttendanceEvent, error) {
	for i := range e.f.events {
		if e.f.events[i].SessionID == sessionID {
			c := e.f.events[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (e fakeEvents) ExistsForSession(ctx context.Context, sessionID int64) (bool, error) {
	ev, _ := e.GetBySessionID(ctx, sessionID)
	return ev != nil, nil
}

func (e fakeEvents) ExistsByTutorBlockDate(ctx context.Context, tutorID, classroomID, timeBlockID int64, realDate time.Time) (bool, error) {
	sessions := fakeSessions{e.f}
	for i := range e.f.events {
		ev := e.f.events[i]
		if ev.TutorID != tutorID || !ev.RealDate.Equal(model.TruncateDate(realDate)) {
			continue
		}
		sess, _ := sessions.GetByID(ctx, ev.SessionID)
		if sess != nil && sess.ClassroomID == classroomID && sess.TimeBlockID == timeBlockID {
			return true, nil
		}
	}
	return false, nil
}

func (e fakeEvents) SetMakeupDate(ctx context.Context, id int64, makeupDate time.Time) (bool, error) {
	for i := range e.f.events {
		ev := &e.f.events[i]
		if ev.ID == id && !ev.Delivered && ev.MakeupDate == nil {
			d := makeupDate
			ev.MakeupDate = &d
			return true, nil
		}
	}
	return false, nil
}

func (e fakeEvents) Update(ctx context.Context, ev *model.AttendanceEvent) error {
	for i := range e.f.events {
		if e.f.events[i].ID == ev.ID {
			e.f.events[i] = *ev
			return nil
		}
	}
	return model.NotFound("attendance event %d not found", ev.ID)
}

func (e fakeEvents) ListDetailsByTutorRange(ctx context.Context, tutorID int64, from, to time.Time) ([]model.SessionDetail, error) {
	sessions := fakeSessions{e.f}
	weeks := fakeWeeks{e.f}
	var out []model.SessionDetail
	for i := range e.f.events {
		ev := e.f.events[i]
		if ev.TutorID != tutorID {
			continue
		}
		d := model.TruncateDate(ev.RealDate)
		if d.Before(model.TruncateDate(from)) || d.After(model.TruncateDate(to)) {
			continue
		}
		sess, _ := sessions.GetByID(ctx, ev.SessionID)
		if sess == nil {
			continue
		}
		if blk, ok := e.f.blocks[sess.TimeBlockID]; ok {
			b := blk
			sess.Block = &b
		}
		sess.Week = weeks.byID(sess.WeekID)
		c := ev
		out = append(out, model.SessionDetail{Session: *sess, Event: &c})
	}
	return out, nil
}

// --- StudentAttendanceStore

type fakeStudents struct{ f *fakeStore }

func (s fakeStudents) Insert(ctx context.Context, rec *model.StudentAttendance) error {
	for i := range s.f.students {
		e := s.f.students[i]
		if e.StudentID == rec.StudentID && e.ClassroomID == rec.ClassroomID &&
			e.TimeBlockID == rec.TimeBlockID && e.RealDate.Equal(rec.RealDate) {
			return model.Conflict("insert student attendance: already exists")
		}
	}
	rec.ID = s.f.id()
	s.f.students = append(s.f.students, *rec)
	return nil
}

func (s fakeStudents) ListByStudentClassroom(ctx context.Context, studentID, classroomID int64) ([]model.StudentAttendance, error) {
	var out []model.StudentAttendance
	for i := range s.f.students {
		e := s.f.students[i]
		if e.StudentID == studentID && e.ClassroomID == classroomID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- wiring helpers

type fixture struct {
	store      *fakeStore
	calendar   *CalendarService
	sessions   *SessionService
	tutors     *TutorService
	attendance *AttendanceService
	stats      *StatsService
}

func newFixture() *fixture {
	f := newFakeStore()
	tx := passTx{}
	weeks := fakeWeeks{f}
	sessions := fakeSessions{f}
	assignments := fakeAssignments{f}
	events := fakeEvents{f}

	return &fixture{
		store:      f,
		calendar:   NewCalendarService(tx, f, weeks, nop()),
		sessions:   NewSessionService(tx, fakeClassrooms{f}, fakeBlocks{f}, weeks, sessions, events, nop()),
		tutors:     NewTutorService(tx, fakeClassrooms{f}, fakePeople{f}, assignments, nop()),
		attendance: NewAttendanceService(tx, sessions, weeks, assignments, fakeReasons{f}, fakePeople{f}, events, nop()),
		stats:      NewStatsService(tx, sessions, events, fakeStudents{f}, fakeClassrooms{f}, fakeBlocks{f}, fakePeople{f}, nop()),
	}
}

// seedWeeks generates a calendar directly through the fake store.
func (fx *fixture) seedWeeks(start string, count int) []model.Week {
	weeks := model.BuildWeeks(1, uuid.New(), date(start), count)
	_ = fakeWeeks{fx.store}.InsertBatch(context.Background(), weeks)
	return fx.store.weeks
}
