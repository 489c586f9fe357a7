package catalog

import (
	"errors"

	"github.com/edustack/edu_marketplace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type courseKind struct{}

func (courseKind) ResolveOwner(db *gorm.DB, productID uuid.UUID) (*uuid.UUID, error) {
	var course models.Course
	if err := db.Select("educator_id").First(&course, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course.EducatorID, nil
}

func (courseKind) Price(db *gorm.DB, productID uuid.UUID) (int64, error) {
	var course models.Course
	if err := db.Select("price").First(&course, "id = ?", productID).Error; err != nil {
		return 0, err
	}
	return course.Price, nil
}

func (courseKind) IsActive(db *gorm.DB, productID uuid.UUID) (bool, error) {
	var course models.Course
	if err := db.Select("is_active").First(&course, "id = ?", productID).Error; err != nil {
		return false, err
	}
	return course.IsActive, nil
}

type webinarKind struct{}

func (webinarKind) ResolveOwner(db *gorm.DB, productID uuid.UUID) (*uuid.UUID, error) {
	var webinar models.Webinar
	if err := db.Select("educator_id").First(&webinar, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &webinar.EducatorID, nil
}

func (webinarKind) Price(db *gorm.DB, productID uuid.UUID) (int64, error) {
	var webinar models.Webinar
	if err := db.Select("price").First(&webinar, "id = ?", productID).Error; err != nil {
		return 0, err
	}
	return webinar.Price, nil
}

func (webinarKind) IsActive(db *gorm.DB, productID uuid.UUID) (bool, error) {
	var webinar models.Webinar
	if err := db.Select("is_active").First(&webinar, "id = ?", productID).Error; err != nil {
		return false, err
	}
	return webinar.IsActive, nil
}

type testSeriesKind struct{}

func (testSeriesKind) ResolveOwner(db *gorm.DB, productID uuid.UUID) (*uuid.UUID, error) {
	var series models.TestSeries
	if err := db.Select("educator_id").First(&series, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &series.EducatorID, nil
}

func (testSeriesKind) Price(db *gorm.DB, productID uuid.UUID) (int64, error) {
	var series models.TestSeries
	if err := db.Select("price").First(&series, "id = ?", productID).Error; err != nil {
		return 0, err
	}
	return series.Price, nil
}

func (testSeriesKind) IsActive(db *gorm.DB, productID uuid.UUID) (bool, error) {
	var series models.TestSeries
	if err := db.Select("is_active").First(&series, "id = ?", productID).Error; err != nil {
		return false, err
	}
	return series.IsActive, nil
}

type mockTestKind struct{}

func (mockTestKind) ResolveOwner(db *gorm.DB, productID uuid.UUID) (*uuid.UUID, error) {
	var test models.MockTest
	if err := db.Select("educator_id").First(&test, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &test.EducatorID, nil
}

func (mockTestKind) Price(db *gorm.DB, productID uuid.UUID) (int64, error) {
	var test models.MockTest
	if err := db.Select("price").First(&test, "id = ?", productID).Error; err != nil {
		return 0, err
	}
	return test.Price, nil
}

func (mockTestKind) IsActive(db *gorm.DB, productID uuid.UUID) (bool, error) {
	var test models.MockTest
	if err := db.Select("is_active").First(&test, "id = ?", productID).Error; err != nil {
		return false, err
	}
	return test.IsActive, nil
}
