package content

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/errcode"
	"github.com/MdFayaz7/portfolio1/internal/fallback"
)

func ptr[T any](v T) *T { return &v }

type captureNotifier struct {
	mu   sync.Mutex
	msgs []database.Message
}

func (n *captureNotifier) Notify(_ context.Context, m database.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, m)
}

func newTestServices(t *testing.T, opts Options) (*Services, database.Stores) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	stores := database.NewGormStores(db)
	return New(stores, opts), stores
}

// newUnavailableServices returns services whose every query fails.
func newUnavailableServices(t *testing.T, opts Options) *Services {
	t.Helper()
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(database.NewGormStores(db), opts)
}

func defaults(t *testing.T) *fallback.Dataset {
	t.Helper()
	ds, err := fallback.Default()
	require.NoError(t, err)
	return ds
}

func TestProjectsFallBackWhenDatabaseIsDown(t *testing.T) {
	svc := newUnavailableServices(t, Options{Fallback: defaults(t)})
	ctx := context.Background()

	all, err := svc.Projects.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "E-Commerce Platform", all[0].Title)

	featured, err := svc.Projects.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	p, err := svc.Projects.GetActive(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Title, p.Title)

	_, err = svc.Projects.GetActive(ctx, "missing")
	assert.Equal(t, errcode.NotFound, errcode.KindOf(err))
}

func TestPublicReadsFallBackForEveryCollection(t *testing.T) {
	svc := newUnavailableServices(t, Options{Fallback: defaults(t)})
	ctx := context.Background()

	profile, err := svc.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", profile.ID)

	edu, err := svc.Education.List(ctx)
	require.NoError(t, err)
	assert.Len(t, edu, 1)

	skills, err := svc.Skills.List(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 6)
}

func TestWritesNeverFallBack(t *testing.T) {
	svc := newUnavailableServices(t, Options{Fallback: defaults(t)})

	_, err := svc.Skills.Create(context.Background(), SkillInput{Name: ptr("Go"), Category: ptr("Backend")})
	require.Error(t, err)
	assert.Equal(t, errcode.Internal, errcode.KindOf(err))
}

func TestFallbackDisabledSurfacesError(t *testing.T) {
	svc := newUnavailableServices(t, Options{})

	_, err := svc.Projects.List(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, errcode.Internal, errcode.KindOf(err))
}

func TestListsExcludeInactiveEntries(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svc.Education.Create(ctx, EducationInput{
		Institution: ptr("MIT"), Degree: ptr("BSc"), Field: ptr("CS"), StartDate: ptr("2019-09-01"),
	})
	require.NoError(t, err)
	_, err = svc.Education.Create(ctx, EducationInput{
		Institution: ptr("Hidden"), Degree: ptr("MSc"), Field: ptr("CS"), StartDate: ptr("2023-09-01"),
		IsActive: ptr(false),
	})
	require.NoError(t, err)

	_, err = svc.Skills.Create(ctx, SkillInput{Name: ptr("Go"), Category: ptr("Backend")})
	require.NoError(t, err)
	_, err = svc.Skills.Create(ctx, SkillInput{Name: ptr("Perl"), Category: ptr("Languages"), IsActive: ptr(false)})
	require.NoError(t, err)

	hidden, err := svc.Projects.Create(ctx, ProjectInput{
		Title: ptr("Secret"), Description: ptr("Not ready for anyone"), Image: ptr("/uploads/x.png"),
		IsActive: ptr(false),
	})
	require.NoError(t, err)

	edu, err := svc.Education.List(ctx)
	require.NoError(t, err)
	require.Len(t, edu, 1)
	assert.Equal(t, "MIT", edu[0].Institution)

	skills, err := svc.Skills.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].Name)

	projects, err := svc.Projects.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = svc.Projects.GetActive(ctx, hidden.ID)
	assert.Equal(t, errcode.NotFound, errcode.KindOf(err))
}

func TestSkillDefaultsAndGrouping(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	sk, err := svc.Skills.Create(ctx, SkillInput{Name: ptr(" React "), Category: ptr("Frontend")})
	require.NoError(t, err)
	assert.Equal(t, "React", sk.Name)
	assert.Equal(t, 50, sk.Proficiency)
	assert.Equal(t, "#3B82F6", sk.Color)
	assert.True(t, sk.IsActive)

	_, err = svc.Skills.Create(ctx, SkillInput{Name: ptr("Vue"), Category: ptr("Frontend"), SortOrder: ptr(-1)})
	require.NoError(t, err)

	skills, err := svc.Skills.List(ctx)
	require.NoError(t, err)
	grouped := ByCategory(skills)
	require.Len(t, grouped["Frontend"], 2)
	assert.Equal(t, "Vue", grouped["Frontend"][0].Name)
}

func TestSkillValidation(t *testing.T) {
	svc, _ := newTestServices(t, Options{})

	_, err := svc.Skills.Create(context.Background(), SkillInput{
		Category:    ptr("Cooking"),
		Proficiency: ptr(101),
	})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, errcode.Validation, e.Kind)
	assert.Equal(t, []errcode.FieldError{
		{Field: "name", Message: "Skill name is required"},
		{Field: "category", Message: "Category must be one of Frontend, Backend, Tools, Languages, Database, Other"},
		{Field: "proficiency", Message: "Proficiency must be between 1 and 100"},
	}, e.Fields)
}

func TestEducationValidationAndSorting(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svc.Education.Create(ctx, EducationInput{Institution: ptr("X"), Degree: ptr("Y"), Field: ptr("Z"), StartDate: ptr("soon")})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, []errcode.FieldError{{Field: "startDate", Message: "Valid start date is required"}}, e.Fields)

	for _, start := range []string{"2015-09-01", "2020-09-01T00:00:00Z"} {
		_, err := svc.Education.Create(ctx, EducationInput{
			Institution: ptr("School " + start), Degree: ptr("D"), Field: ptr("F"), StartDate: ptr(start),
		})
		require.NoError(t, err)
	}
	list, err := svc.Education.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2020, list[0].StartDate.Year())
	assert.Nil(t, list[0].EndDate)
}

func TestEducationUpdateCannotClearRequiredFields(t *testing.T) {
	svc, stores := newTestServices(t, Options{})
	ctx := context.Background()

	created, err := svc.Education.Create(ctx, EducationInput{
		Institution: ptr("MIT"), Degree: ptr("BSc"), Field: ptr("CS"), StartDate: ptr("2018-09-01"),
	})
	require.NoError(t, err)

	_, err = svc.Education.Update(ctx, created.ID, EducationInput{Institution: ptr(""), Degree: ptr("  ")})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, errcode.Validation, e.Kind)
	assert.Equal(t, []errcode.FieldError{
		{Field: "institution", Message: "Institution is required"},
		{Field: "degree", Message: "Degree is required"},
	}, e.Fields)

	stored, err := stores.Education.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "MIT", stored.Institution)
	assert.Equal(t, "BSc", stored.Degree)

	updated, err := svc.Education.Update(ctx, created.ID, EducationInput{Grade: ptr("A")})
	require.NoError(t, err)
	assert.Equal(t, "CS", updated.Field)
	assert.Equal(t, "A", updated.Grade)
}

func TestProfileGetOrCreateIsIdempotent(t *testing.T) {
	svc, stores := newTestServices(t, Options{})
	ctx := context.Background()

	first, err := svc.Profile.GetOrCreate(ctx)
	require.NoError(t, err)
	second, err := svc.Profile.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, database.ProfileID, second.ID)

	n, err := stores.Profiles.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestProfileUpdateMergesSocialLinks(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svc.Profile.Update(ctx, ProfileInput{
		SocialLinks: &SocialLinksInput{GitHub: ptr("https://github.com/a"), LinkedIn: ptr("https://linkedin.com/in/a")},
	})
	require.NoError(t, err)

	p, err := svc.Profile.Update(ctx, ProfileInput{
		Name:        ptr("Ada"),
		Title:       ptr(""),
		Email:       ptr("ADA@Example.com"),
		SocialLinks: &SocialLinksInput{GitHub: ptr("https://github.com/ada")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Full Stack Developer", p.Title, "blank values are ignored")
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "https://github.com/ada", p.SocialLinks.GitHub)
	assert.Equal(t, "https://linkedin.com/in/a", p.SocialLinks.LinkedIn)

	got, err := svc.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/in/a", got.SocialLinks.LinkedIn)
}

func TestProfileRejectsInvalidEmail(t *testing.T) {
	svc, _ := newTestServices(t, Options{})

	_, err := svc.Profile.Update(context.Background(), ProfileInput{Email: ptr("not-an-email")})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, []errcode.FieldError{{Field: "email", Message: "Valid email is required"}}, e.Fields)
}

func TestResumePathMissing(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	_, err := svc.Profile.ResumePath(ctx)
	assert.Equal(t, errcode.NotFound, errcode.KindOf(err))

	resume := "/uploads/resume-1-2.pdf"
	_, err = svc.Profile.Update(ctx, ProfileInput{ResumeURL: &resume})
	require.NoError(t, err)
	path, err := svc.Profile.ResumePath(ctx)
	require.NoError(t, err)
	assert.Equal(t, resume, path)
}

func TestToggleFeaturedRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()

	p, err := svc.Projects.Create(ctx, ProjectInput{
		Title:        ptr("Portfolio"),
		Description:  ptr("A personal portfolio site"),
		Image:        ptr("/uploads/project-1.png"),
		Technologies: StringList{"Go, gin", "React"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "gin", "React"}, []string(p.Technologies))
	assert.Equal(t, "Completed", p.Status)
	assert.Equal(t, "Web Application", p.Category)
	require.NotNil(t, p.StartDate)
	original := p.Featured

	once, err := svc.Projects.ToggleFeatured(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, !original, once.Featured)

	twice, err := svc.Projects.ToggleFeatured(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, original, twice.Featured)

	_, err = svc.Projects.ToggleFeatured(ctx, "missing")
	assert.Equal(t, errcode.NotFound, errcode.KindOf(err))
}

func TestProjectCreateRequiresImage(t *testing.T) {
	svc, _ := newTestServices(t, Options{})

	_, err := svc.Projects.Create(context.Background(), ProjectInput{Title: ptr("T"), Description: ptr("short")})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, []errcode.FieldError{
		{Field: "image", Message: "Project image is required"},
		{Field: "description", Message: "Description must be at least 10 characters"},
	}, e.Fields)
}

func TestWritesFlushReadCache(t *testing.T) {
	svc, _ := newTestServices(t, Options{CacheTTL: time.Minute})
	ctx := context.Background()

	empty, err := svc.Skills.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Skills.Create(ctx, SkillInput{Name: ptr("Go"), Category: ptr("Backend")})
	require.NoError(t, err)

	skills, err := svc.Skills.List(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

func TestShortContactMessageCreatesNoRecord(t *testing.T) {
	notifier := &captureNotifier{}
	svc, stores := newTestServices(t, Options{Notifier: notifier})
	ctx := context.Background()

	_, err := svc.Messages.Create(ctx, MessageInput{Name: "Bob", Email: "bob@example.com", Message: "hi"}, Origin{})
	e, ok := errcode.From(err)
	require.True(t, ok)
	assert.Equal(t, errcode.Validation, e.Kind)
	assert.Equal(t, []errcode.FieldError{{Field: "message", Message: "Message must be at least 10 characters"}}, e.Fields)

	n, err := stores.Messages.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, notifier.msgs)
}

func TestContactMessageLifecycle(t *testing.T) {
	notifier := &captureNotifier{}
	svc, _ := newTestServices(t, Options{Notifier: notifier})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		m, err := svc.Messages.Create(ctx, MessageInput{
			Name:    "Grace",
			Email:   "Grace@Example.com",
			Message: fmt.Sprintf("Hello there number %d", i),
		}, Origin{IPAddress: "10.0.0.1", UserAgent: "test"})
		require.NoError(t, err)
		assert.Equal(t, database.MessageNew, m.Status)
		assert.Equal(t, "grace@example.com", m.Email)
		ids = append(ids, m.ID)
	}
	assert.Len(t, notifier.msgs, 3)

	page, pg, err := svc.Messages.List(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, Pagination{Current: 2, Pages: 2, Total: 3}, pg)

	got, err := svc.Messages.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, database.MessageRead, got.Status)

	read, pg, err := svc.Messages.List(ctx, database.MessageRead, 0, 0)
	require.NoError(t, err)
	assert.Len(t, read, 1)
	assert.Equal(t, 1, pg.Current)

	replied, err := svc.Messages.SetStatus(ctx, ids[1], database.MessageReplied)
	require.NoError(t, err)
	assert.Equal(t, database.MessageReplied, replied.Status)

	// free overwrite back to new
	back, err := svc.Messages.SetStatus(ctx, ids[1], database.MessageNew)
	require.NoError(t, err)
	assert.Equal(t, database.MessageNew, back.Status)

	_, err = svc.Messages.SetStatus(ctx, ids[1], "archived")
	assert.Equal(t, errcode.Validation, errcode.KindOf(err))

	require.NoError(t, svc.Messages.Delete(ctx, ids[2]))
	err = svc.Messages.Delete(ctx, ids[2])
	assert.Equal(t, errcode.NotFound, errcode.KindOf(err))
}
