// Package models contains the persistence rows of the tracker, configured
// to work using GORM as the ORM. Table names are pinned to the singular
// department, role and employee tables.
package models

// Department is a row of the department table.
type Department struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:30;not null;uniqueIndex"`
}

func (Department) TableName() string {
	return "department"
}

// Role is a row of the role table. Deleting a referenced department is
// restricted at the database level as well as in the repository.
type Role struct {
	ID           uint       `gorm:"primaryKey"`
	Title        string     `gorm:"size:30;not null"`
	Salary       float64    `gorm:"type:decimal(12,2);not null;check:salary >= 0"`
	DepartmentID uint       `gorm:"not null;index"`
	Department   Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Role) TableName() string {
	return "role"
}

// Employee is a row of the employee table. ManagerID is a nullable
// self-reference.
type Employee struct {
	ID        uint      `gorm:"primaryKey"`
	FirstName string    `gorm:"size:30;not null"`
	LastName  string    `gorm:"size:30;not null"`
	RoleID    uint      `gorm:"not null;index"`
	Role      Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ManagerID *uint     `gorm:"index"`
	Manager   *Employee `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	IsManager bool      `gorm:"not null;default:false"`
}

func (Employee) TableName() string {
	return "employee"
}
