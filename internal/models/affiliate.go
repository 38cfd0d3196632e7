package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a referral partner identified by a unique code.
type Affiliate struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	Email          string         `gorm:"size:255;not null;index" json:"email"`
	Phone          string         `gorm:"size:50" json:"phone"`
	Company        string         `gorm:"size:200" json:"company"`
	Website        string         `gorm:"size:500" json:"website"`
	Code           string         `gorm:"size:20;not null;index" json:"code"`
	CommissionRate float64        `json:"commissionRate"`
	Status         string         `gorm:"size:20;default:active;index" json:"status"` // active, inactive, suspended
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Affiliate) TableName() string { return "affiliates" }

type AffiliateApplication struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Email       string         `gorm:"size:255;not null;index" json:"email"`
	Phone       string         `gorm:"size:50" json:"phone"`
	Company     string         `gorm:"size:200" json:"company"`
	Website     string         `gorm:"size:500" json:"website"`
	Audience    string         `gorm:"type:text" json:"audience"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      string         `gorm:"size:20;default:pending;index" json:"status"` // pending, approved, rejected
	AffiliateID *uint          `json:"affiliateId"`
	ReviewedBy  *uint          `json:"reviewedBy"`
	ReviewedAt  *time.Time     `json:"reviewedAt"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AffiliateApplication) TableName() string { return "affiliate_applications" }

type Lead struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:100;not null" json:"name"`
	Email           string         `gorm:"size:255;not null;index" json:"email"`
	Phone           string         `gorm:"size:50" json:"phone"`
	Company         string         `gorm:"size:200" json:"company"`
	PracticeType    string         `gorm:"size:100" json:"practiceType"`
	ServiceInterest string         `gorm:"size:200" json:"serviceInterest"`
	Message         string         `gorm:"type:text" json:"message"`
	Source          string         `gorm:"size:50;default:website" json:"source"`
	AffiliateID     *uint          `gorm:"index" json:"affiliateId"`
	Affiliate       *Affiliate     `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	ReferralCode    string         `gorm:"size:20" json:"referralCode"`
	Status          string         `gorm:"size:20;default:new;index" json:"status"` // new, contacted, qualified, converted, lost
	EstimatedValue  *float64       `json:"estimatedValue"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lead) TableName() string { return "leads" }

// Payout is a commission payment owed or made to an affiliate.
type Payout struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AffiliateID uint           `gorm:"not null;index" json:"affiliateId"`
	Affiliate   *Affiliate     `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Currency    string         `gorm:"size:3;default:USD" json:"currency"`
	Method      string         `gorm:"size:50" json:"method"`
	Reference   string         `gorm:"size:100" json:"reference"`
	Status      string         `gorm:"size:20;default:pending;index" json:"status"` // pending, paid, cancelled
	PeriodStart *time.Time     `json:"periodStart"`
	PeriodEnd   *time.Time     `json:"periodEnd"`
	PaidAt      *time.Time     `json:"paidAt"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payout) TableName() string { return "payouts" }
