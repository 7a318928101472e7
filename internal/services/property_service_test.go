// internal/services/property_service_test.go
package services

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database shared across
	// goroutines.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Locality{},
		&models.Property{},
		&models.PropertyImage{},
		&models.EnquiryLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type PropertyServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	svc     *PropertyService
	agent   *models.User
	admin   *models.User
	worli   *models.Locality
	andheri *models.Locality
	propA   *models.Property // Worli 3BHK flat, 4.5 Cr, buy
	propB   *models.Property // Andheri 2BHK flat, 1.85 Cr, buy
	propC   *models.Property // unapproved villa
	propD   *models.Property // inactive flat
	propE   *models.Property // Andheri rent flat
}

func (s *PropertyServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewPropertyService(s.db, nil)

	s.agent = &models.User{Name: "Ravi Mehta", Email: "ravi@example.com", Phone: "9820012345", Role: models.UserRoleAgent, IsApproved: true}
	s.Require().NoError(s.agent.SetPassword("secret123"))
	s.Require().NoError(s.db.Create(s.agent).Error)

	s.admin = &models.User{Name: "Admin", Email: "admin@example.com", Phone: "9820000000", Role: models.UserRoleAdmin, IsApproved: true}
	s.Require().NoError(s.admin.SetPassword("secret123"))
	s.Require().NoError(s.db.Create(s.admin).Error)

	s.worli = &models.Locality{Name: "Worli", Zone: "South Mumbai", Slug: "worli-south-mumbai"}
	s.andheri = &models.Locality{Name: "Andheri West", Zone: "Western Suburbs", Slug: "andheri-west-western-suburbs"}
	s.Require().NoError(s.db.Create(s.worli).Error)
	s.Require().NoError(s.db.Create(s.andheri).Error)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.propA = s.seedProperty("Sea View 3BHK in Worli", models.PropertyTypeFlat, models.ListingTypeBuy, 4.5, models.PriceUnitCrore, intPtr(3), floatPtr(1250), &s.worli.ID, true, models.PropertyStatusActive, base.Add(3*time.Hour))
	s.propB = s.seedProperty("2BHK near Andheri Metro", models.PropertyTypeFlat, models.ListingTypeBuy, 1.85, models.PriceUnitCrore, intPtr(2), floatPtr(950), &s.andheri.ID, true, models.PropertyStatusActive, base.Add(2*time.Hour))
	s.propC = s.seedProperty("Unlisted Villa", models.PropertyTypeVilla, models.ListingTypeBuy, 8, models.PriceUnitCrore, intPtr(4), floatPtr(3000), &s.worli.ID, false, models.PropertyStatusActive, base.Add(time.Hour))
	s.propD = s.seedProperty("Withdrawn Flat", models.PropertyTypeFlat, models.ListingTypeBuy, 95, models.PriceUnitLakh, intPtr(1), floatPtr(600), &s.andheri.ID, true, models.PropertyStatusInactive, base.Add(30*time.Minute))
	s.propE = s.seedProperty("Furnished Rental in Andheri", models.PropertyTypeFlat, models.ListingTypeRent, 85000, models.PriceUnitMonth, intPtr(2), floatPtr(900), &s.andheri.ID, true, models.PropertyStatusActive, base)
}

func (s *PropertyServiceTestSuite) seedProperty(title string, pt models.PropertyType, lt models.ListingType, price float64, unit models.PriceUnit, bhk *int, area *float64, localityID *uuid.UUID, approved bool, status models.PropertyStatus, createdAt time.Time) *models.Property {
	p := &models.Property{
		Title:        title,
		Slug:         utils.Slugify(title),
		PropertyType: pt,
		ListingType:  lt,
		Price:        price,
		PriceUnit:    unit,
		BHK:          bhk,
		AreaSqft:     area,
		Furnished:    models.FurnishingSemi,
		Address:      title + " Road, Mumbai",
		LocalityID:   localityID,
		IsApproved:   approved,
		Status:       status,
		UserID:       s.agent.ID,
	}
	s.Require().NoError(s.db.Create(p).Error)
	s.Require().NoError(s.db.Model(p).UpdateColumn("created_at", createdAt).Error)
	p.CreatedAt = createdAt
	return p
}

func (s *PropertyServiceTestSuite) search(query string) ([]models.Property, int64) {
	values, err := url.ParseQuery(query)
	s.Require().NoError(err)
	filters := ParsePropertyFilters(values)
	page := utils.PageParams{Page: 1, PerPage: 20}
	props, total, err := s.svc.Search(filters, values.Get("sort"), page)
	s.Require().NoError(err)
	return props, total
}

func (s *PropertyServiceTestSuite) titles(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.Title)
	}
	return out
}

func (s *PropertyServiceTestSuite) TestSearchShowsOnlyApprovedActive() {
	props, total := s.search("")
	assert.Equal(s.T(), int64(3), total)
	assert.NotContains(s.T(), s.titles(props), s.propC.Title)
	assert.NotContains(s.T(), s.titles(props), s.propD.Title)
}

func (s *PropertyServiceTestSuite) TestSearchZoneFilter() {
	props, total := s.search("zone=South+Mumbai")
	assert.Equal(s.T(), int64(1), total)
	assert.Equal(s.T(), s.propA.Title, props[0].Title)
}

func (s *PropertyServiceTestSuite) TestSearchUnknownZoneReturnsNothing() {
	_, total := s.search("zone=Pune")
	assert.Zero(s.T(), total)
}

func (s *PropertyServiceTestSuite) TestSearchConjunctiveFilters() {
	props, total := s.search("listing_type=buy&property_type=flat&bhk=2,3")
	assert.Equal(s.T(), int64(2), total)
	assert.ElementsMatch(s.T(), []string{s.propA.Title, s.propB.Title}, s.titles(props))
}

func (s *PropertyServiceTestSuite) TestSearchPriceBoundsCompareRawNumbers() {
	// Prices compare as stored numbers, units notwithstanding: the
	// rental's 85000 dwarfs every crore figure.
	_, total := s.search("min_price=100")
	assert.Equal(s.T(), int64(1), total)

	props, total := s.search("listing_type=buy&min_price=2&max_price=5")
	assert.Equal(s.T(), int64(1), total)
	assert.Equal(s.T(), s.propA.Title, props[0].Title)
}

func (s *PropertyServiceTestSuite) TestSearchMalformedFilterIsIgnored() {
	_, total := s.search("listing_type=lease")
	assert.Equal(s.T(), int64(3), total)
}

func (s *PropertyServiceTestSuite) TestSearchFreeText() {
	props, total := s.search("q=andheri")
	assert.Equal(s.T(), int64(2), total)
	assert.ElementsMatch(s.T(), []string{s.propB.Title, s.propE.Title}, s.titles(props))
}

func (s *PropertyServiceTestSuite) TestSortOrders() {
	props, _ := s.search("sort=price_low")
	assert.Equal(s.T(), s.propB.Title, props[0].Title)
	assert.Equal(s.T(), s.propE.Title, props[len(props)-1].Title)

	props, _ = s.search("sort=price_high")
	assert.Equal(s.T(), s.propE.Title, props[0].Title)

	props, _ = s.search("")
	assert.Equal(s.T(), s.propA.Title, props[0].Title) // newest first by default
}

func (s *PropertyServiceTestSuite) TestSortAreaPutsMissingAreaLast() {
	plot := s.seedProperty("Open Plot in Worli", models.PropertyTypePlot, models.ListingTypeBuy, 2.2, models.PriceUnitCrore, nil, nil, &s.worli.ID, true, models.PropertyStatusActive, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	props, _ := s.search("sort=area")
	assert.Equal(s.T(), plot.Title, props[len(props)-1].Title)
	assert.Equal(s.T(), s.propA.Title, props[0].Title)
}

func (s *PropertyServiceTestSuite) TestPaginationWindowsConcatenate() {
	var seen []string
	for page := 1; ; page++ {
		params := utils.PageParams{Page: page, PerPage: 2}
		props, total, err := s.svc.Search(PropertyFilters{}, "", params)
		s.Require().NoError(err)
		assert.Equal(s.T(), int64(3), total)

		meta := utils.NewPageMeta(total, params)
		assert.Equal(s.T(), 2, meta.Pages)
		seen = append(seen, s.titles(props)...)
		if !meta.HasNext {
			break
		}
	}
	assert.Len(s.T(), seen, 3)
	assert.ElementsMatch(s.T(), []string{s.propA.Title, s.propB.Title, s.propE.Title}, seen)
}

func (s *PropertyServiceTestSuite) TestPageBeyondEndIsEmpty() {
	props, total, err := s.svc.Search(PropertyFilters{}, "", utils.PageParams{Page: 99, PerPage: 10})
	s.Require().NoError(err)
	assert.Equal(s.T(), int64(3), total)
	assert.Empty(s.T(), props)
}

func (s *PropertyServiceTestSuite) TestGetPublicCountsView() {
	got, err := s.svc.GetPublic(s.propA.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), int64(1), got.ViewsCount)

	got, err = s.svc.GetPublic(s.propA.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), int64(2), got.ViewsCount)
}

func (s *PropertyServiceTestSuite) TestConcurrentViewsAllCounted() {
	const visitors = 50

	var wg sync.WaitGroup
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.GetPublic(s.propB.ID)
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	var p models.Property
	s.Require().NoError(s.db.First(&p, "id = ?", s.propB.ID).Error)
	assert.Equal(s.T(), int64(visitors), p.ViewsCount)
}

func (s *PropertyServiceTestSuite) TestInactiveListingIsNotFound() {
	_, err := s.svc.GetPublic(s.propD.ID)
	assert.EqualError(s.T(), err, "property not found")

	_, err = s.svc.GetPublicBySlug(s.propD.Slug)
	assert.EqualError(s.T(), err, "property not found")

	// and no view was recorded against it
	var p models.Property
	s.Require().NoError(s.db.First(&p, "id = ?", s.propD.ID).Error)
	assert.Zero(s.T(), p.ViewsCount)
}

func (s *PropertyServiceTestSuite) TestUnapprovedStillFetchableByDirectID() {
	// Approval gates search, not the detail endpoint; the unapproved
	// villa is merely invisible in listings.
	_, total := s.search("property_type=villa")
	assert.Zero(s.T(), total)

	got, err := s.svc.GetPublic(s.propC.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), s.propC.Title, got.Title)
}

func (s *PropertyServiceTestSuite) TestSimilarSharesLocalityOrType() {
	s.Require().NoError(s.db.Model(s.propB).UpdateColumn("views_count", 10).Error)
	s.Require().NoError(s.db.Model(s.propE).UpdateColumn("views_count", 5).Error)

	similar, err := s.svc.Similar(s.propA, 6)
	s.Require().NoError(err)

	titles := s.titles(similar)
	assert.NotContains(s.T(), titles, s.propA.Title) // never itself
	assert.NotContains(s.T(), titles, s.propC.Title) // unapproved stays hidden
	assert.Equal(s.T(), []string{s.propB.Title, s.propE.Title}, titles)
}

func (s *PropertyServiceTestSuite) TestSimilarHonorsLimit() {
	similar, err := s.svc.Similar(s.propA, 1)
	s.Require().NoError(err)
	assert.Len(s.T(), similar, 1)
}

func (s *PropertyServiceTestSuite) TestCreateDefaultsAndSlug() {
	req := &CreatePropertyRequest{
		Title:        "Sunny 1BHK in Dadar",
		PropertyType: "flat",
		ListingType:  "buy",
		Price:        75,
		BHK:          intPtr(1),
	}

	created, err := s.svc.Create(s.agent.ID, false, req)
	s.Require().NoError(err)
	assert.Equal(s.T(), "sunny-1bhk-in-dadar", created.Slug)
	assert.False(s.T(), created.IsApproved)
	assert.Equal(s.T(), models.PropertyStatusActive, created.Status)
	assert.Equal(s.T(), models.PriceUnitLakh, created.PriceUnit)
}

func (s *PropertyServiceTestSuite) TestCreateByAdminIsApproved() {
	req := &CreatePropertyRequest{
		Title:        "Office Floor in BKC",
		PropertyType: "office",
		ListingType:  "rent",
		Price:        250000,
		PriceUnit:    "month",
	}

	created, err := s.svc.Create(s.admin.ID, true, req)
	s.Require().NoError(err)
	assert.True(s.T(), created.IsApproved)
}

func (s *PropertyServiceTestSuite) TestCreateSlugCollisionGetsSuffix() {
	req := func() *CreatePropertyRequest {
		return &CreatePropertyRequest{
			Title:        "Lake View Apartment",
			PropertyType: "flat",
			ListingType:  "buy",
			Price:        1.2,
			PriceUnit:    "crore",
		}
	}

	first, err := s.svc.Create(s.agent.ID, false, req())
	s.Require().NoError(err)
	second, err := s.svc.Create(s.agent.ID, false, req())
	s.Require().NoError(err)
	third, err := s.svc.Create(s.agent.ID, false, req())
	s.Require().NoError(err)

	assert.Equal(s.T(), "lake-view-apartment", first.Slug)
	assert.Equal(s.T(), "lake-view-apartment-1", second.Slug)
	assert.Equal(s.T(), "lake-view-apartment-2", third.Slug)
}

func (s *PropertyServiceTestSuite) TestCreateRejectsUnknownAmenity() {
	req := &CreatePropertyRequest{
		Title:        "Penthouse with Helipad",
		PropertyType: "flat",
		ListingType:  "buy",
		Price:        12,
		PriceUnit:    "crore",
		Amenities:    []string{"Lift", "Helipad"},
	}

	_, err := s.svc.Create(s.agent.ID, false, req)
	assert.ErrorContains(s.T(), err, "validation failed")
}

func (s *PropertyServiceTestSuite) TestCreateRejectsMissingLocality() {
	ghost := uuid.New()
	req := &CreatePropertyRequest{
		Title:        "Flat in Nowhere",
		PropertyType: "flat",
		ListingType:  "buy",
		Price:        50,
		LocalityID:   &ghost,
	}

	_, err := s.svc.Create(s.agent.ID, false, req)
	assert.EqualError(s.T(), err, "locality not found")
}

func (s *PropertyServiceTestSuite) TestUpdateRequiresOwnership() {
	other := &models.User{Name: "Other Agent", Email: "other@example.com", Phone: "9820099999", Role: models.UserRoleAgent, IsApproved: true}
	s.Require().NoError(other.SetPassword("secret123"))
	s.Require().NoError(s.db.Create(other).Error)

	newTitle := "Hijacked Listing"
	_, err := s.svc.Update(s.propA.ID, other.ID, false, &UpdatePropertyRequest{Title: &newTitle})
	assert.ErrorContains(s.T(), err, "unauthorized")

	// admin may edit anyone's listing
	updated, err := s.svc.Update(s.propA.ID, s.admin.ID, true, &UpdatePropertyRequest{Title: &newTitle})
	s.Require().NoError(err)
	assert.Equal(s.T(), newTitle, updated.Title)
}

func (s *PropertyServiceTestSuite) TestChangeStatus() {
	updated, err := s.svc.ChangeStatus(s.propA.ID, s.agent.ID, false, models.PropertyStatusSold)
	s.Require().NoError(err)
	assert.Equal(s.T(), models.PropertyStatusSold, updated.Status)

	// sold listings drop out of search
	_, total := s.search("zone=South+Mumbai")
	assert.Zero(s.T(), total)

	_, err = s.svc.ChangeStatus(s.propA.ID, s.agent.ID, false, "archived")
	assert.EqualError(s.T(), err, "invalid status")
}

func (s *PropertyServiceTestSuite) TestDeleteIsFinal() {
	s.Require().NoError(s.svc.Delete(s.propB.ID, s.agent.ID, false))

	var count int64
	s.db.Model(&models.Property{}).Where("id = ?", s.propB.ID).Count(&count)
	assert.Zero(s.T(), count)

	_, err := s.svc.GetPublic(s.propB.ID)
	assert.EqualError(s.T(), err, "property not found")
}

func (s *PropertyServiceTestSuite) TestImageLifecycle() {
	img1, err := s.svc.AddImage(s.propA.ID, s.agent.ID, false, "a1.jpg")
	s.Require().NoError(err)
	img2, err := s.svc.AddImage(s.propA.ID, s.agent.ID, false, "a2.jpg")
	s.Require().NoError(err)

	assert.True(s.T(), img1.IsPrimary)
	assert.False(s.T(), img2.IsPrimary)
	assert.Equal(s.T(), 1, img2.SortOrder)

	s.Require().NoError(s.svc.SetPrimaryImage(s.propA.ID, img2.ID, s.agent.ID, false))

	var primaries int64
	s.db.Model(&models.PropertyImage{}).
		Where("property_id = ? AND is_primary = ?", s.propA.ID, true).
		Count(&primaries)
	assert.Equal(s.T(), int64(1), primaries)

	var primary models.PropertyImage
	s.Require().NoError(s.db.First(&primary, "property_id = ? AND is_primary = ?", s.propA.ID, true).Error)
	assert.Equal(s.T(), img2.ID, primary.ID)

	s.Require().NoError(s.svc.DeleteImage(s.propA.ID, img1.ID, s.agent.ID, false))
	var remaining int64
	s.db.Model(&models.PropertyImage{}).Where("property_id = ?", s.propA.ID).Count(&remaining)
	assert.Equal(s.T(), int64(1), remaining)
}

func (s *PropertyServiceTestSuite) TestOwnerDashboard() {
	s.Require().NoError(s.db.Model(s.propA).UpdateColumn("views_count", 7).Error)
	s.Require().NoError(s.db.Create(&models.EnquiryLog{PropertyID: s.propA.ID, Action: models.EnquiryActionPhoneClick, VisitorIP: "1.2.3.4"}).Error)

	stats, err := s.svc.OwnerDashboard(s.agent.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), int64(5), stats.MyProperties)
	assert.Equal(s.T(), int64(7), stats.TotalViews)
	assert.Equal(s.T(), int64(1), stats.EnquiryClicks)
	assert.Len(s.T(), stats.Recent, 5)
}

func (s *PropertyServiceTestSuite) TestStatsAndTypeCounts() {
	stats, err := s.svc.Stats()
	s.Require().NoError(err)
	assert.Equal(s.T(), int64(3), stats.TotalProperties)
	assert.Equal(s.T(), int64(2), stats.ForSale)
	assert.Equal(s.T(), int64(1), stats.ForRent)
	assert.Equal(s.T(), int64(2), stats.Localities)

	counts, err := s.svc.TypeCounts()
	s.Require().NoError(err)
	s.Require().Len(counts, 1)
	assert.Equal(s.T(), models.PropertyTypeFlat, counts[0].Name)
	assert.Equal(s.T(), int64(3), counts[0].Count)
}

func (s *PropertyServiceTestSuite) TestZoneSummaries() {
	summaries, err := NewLocalityService(s.db).ZoneSummaries()
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)

	// Zones keep the creation order of their first locality; counts only
	// include visible listings.
	assert.Equal(s.T(), "South Mumbai", summaries[0].Name)
	assert.Equal(s.T(), int64(1), summaries[0].PropertyCount)
	assert.Equal(s.T(), "Western Suburbs", summaries[1].Name)
	assert.Equal(s.T(), int64(2), summaries[1].PropertyCount)
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestPropertyServiceSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}
