package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB 自定义类型用于 PostgreSQL JSONB 字段
type JSONB map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// StringArray 字符串数组, 存储为 JSONB
type StringArray []string

// Value 实现 driver.Valuer 接口
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringArray: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

// 供应商状态
const (
	VendorStatusActive      = "active"      // 正常合作
	VendorStatusSuspended   = "suspended"   // 暂停合作
	VendorStatusBlacklisted = "blacklisted" // 黑名单
)

// Vendor 供应商档案
type Vendor struct {
	ID             string      `gorm:"primaryKey;size:32" json:"id"`
	Code           string      `gorm:"size:32;uniqueIndex;not null" json:"code"` // 供应商编码 VDR-0001
	Name           string      `gorm:"size:200;not null;index" json:"name"`
	Country        string      `gorm:"size:64" json:"country"`
	Industry       string      `gorm:"size:64" json:"industry"`
	Status         string      `gorm:"size:20;default:'active';index" json:"status"`
	ContactName    string      `gorm:"size:64" json:"contact_name"`
	ContactEmail   string      `gorm:"size:128" json:"contact_email"`
	ContactPhone   string      `gorm:"size:32" json:"contact_phone"`
	ISOStandards   StringArray `gorm:"type:jsonb" json:"iso_standards"`   // 持有的 ISO 标准
	Certifications StringArray `gorm:"type:jsonb" json:"certifications"`  // 持有的行业认证
	QualityRating  *float64    `gorm:"type:decimal(5,2)" json:"quality_rating"`
	Remark         string      `gorm:"type:text" json:"remark"`
	CreatedBy      string      `gorm:"size:32" json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "tbe_vendors"
}
