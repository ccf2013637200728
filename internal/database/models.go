package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示本地账号。单账号模式下系统只有一条记录，ActiveResumeID
// 指向编辑器当前打开的简历。
type User struct {
	gorm.Model
	Username       string   `gorm:"uniqueIndex;size:64"`
	ActiveResumeID uint     `gorm:"default:0"`
	Resumes        []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Resume 表示一份简历。Content 以编辑器的扁平 JSON 结构存储,
// 两种外部格式在入库前都会归一化成这一种。
type Resume struct {
	gorm.Model
	Title      string         `gorm:"size:255"`
	TemplateID string         `gorm:"size:64;default:classic"`
	Content    datatypes.JSON `gorm:"type:jsonb"`
	PhotoKey   string         `gorm:"size:255"`
	PdfKey     string         `gorm:"size:512"`
	PdfName    string         `gorm:"size:255"`
	PreviewKey string         `gorm:"size:512"`
	Status     string         `gorm:"size:32;default:draft"`
	UserID     uint           `gorm:"index"`
	User       User           `gorm:"constraint:OnDelete:CASCADE"`
}

// Asset 记录用户上传到对象存储的附件, 主要是证件照。
type Asset struct {
	gorm.Model
	ObjectKey   string `gorm:"uniqueIndex;size:255"`
	ContentType string `gorm:"size:128"`
	Size        int64
	UserID      uint `gorm:"index"`
	User        User `gorm:"constraint:OnDelete:CASCADE"`
}

// 简历导出状态机: draft -> exporting -> ready, 失败回到 failed。
const (
	ResumeStatusDraft     = "draft"
	ResumeStatusExporting = "exporting"
	ResumeStatusReady     = "ready"
	ResumeStatusFailed    = "failed"
)
