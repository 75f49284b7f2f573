package handler

import (
	"time"

	"github.com/mawaddah/mbs/internal/logic"
	"github.com/mawaddah/mbs/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 构造分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}

// 用户相关响应模型

// UserResponse 用户响应模型
type UserResponse struct {
	ID             int64                `json:"id"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Role           model.UserRole       `json:"role"`
	IsVerifiedSyed bool                 `json:"isVerifiedSyed"`
	Country        string               `json:"country"`
	State          string               `json:"state"`
	City           string               `json:"city"`
	WithdrawMethod model.WithdrawMethod `json:"withdrawMethod"`
	AccountTitle   string               `json:"accountTitle"`
	AccountNumber  string               `json:"accountNumber"`
	BankName       string               `json:"bankName"`
	Language       string               `json:"language"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// 申请相关响应模型

// AppealResponse 申请响应模型
type AppealResponse struct {
	ID                int64                `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Category          model.AppealCategory `json:"category"`
	AmountRequested   string               `json:"amountRequested"`
	IsMonthly         bool                 `json:"isMonthly"`
	MonthsRequired    *int                 `json:"monthsRequired"`
	Status            model.AppealStatus   `json:"status"`
	IsUrgent          bool                 `json:"isUrgent"`
	CreatedBy         int64                `json:"createdBy"`
	Beneficiary       int64                `json:"beneficiary"`
	IsDonorLinked     bool                 `json:"isDonorLinked"`
	FulfillmentSource string               `json:"fulfillmentSource"`
	ApprovedBy        *int64               `json:"approvedBy"`
	ApprovedAt        *time.Time           `json:"approvedAt"`
	RejectedBy        *int64               `json:"rejectedBy"`
	RejectedAt        *time.Time           `json:"rejectedAt"`
	RejectionReason   string               `json:"rejectionReason"`
	CancelledBy       *int64               `json:"cancelledBy"`
	CancelledAt       *time.Time           `json:"cancelledAt"`
	FulfilledAt       *time.Time           `json:"fulfilledAt"`
	ExpiryDate        *time.Time           `json:"expiryDate"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// GetAppealsResponse 获取申请列表响应
type GetAppealsResponse struct {
	Appeals       []AppealResponse           `json:"appeals"`
	FilteredStats *logic.AppealFilteredStats `json:"filteredStats"`
	Pagination    Pagination                 `json:"pagination"`
}

// 捐赠相关响应模型

// DonationResponse 捐赠响应模型
type DonationResponse struct {
	ID            int64               `json:"id"`
	Donor         int64               `json:"donor"`
	Amount        string              `json:"amount"`
	Currency      string              `json:"currency"`
	DonationType  model.DonationType  `json:"donationType"`
	Appeal        *int64              `json:"appeal"`
	Note          string              `json:"note"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	TransactionID string              `json:"transactionId"`
	ReceiptURL    string              `json:"receiptUrl"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// 钱包相关响应模型

// WalletBalanceResponse 钱包余额响应
type WalletBalanceResponse struct {
	Balance        string `json:"balance"`
	TotalCredited  string `json:"totalCredited"`
	TotalWithdrawn string `json:"totalWithdrawn"`
}

// WalletTransactionResponse 钱包流水响应模型
type WalletTransactionResponse struct {
	ID          int64                 `json:"id"`
	Type        model.TransactionType `json:"type"`
	Amount      string                `json:"amount"`
	Appeal      *int64                `json:"appeal"`
	Donor       *int64                `json:"donor"`
	Description string                `json:"description"`
	TransferBy  model.TransferBy      `json:"transferBy"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// GetWalletTransactionsResponse 获取钱包流水响应
type GetWalletTransactionsResponse struct {
	Transactions []WalletTransactionResponse `json:"transactions"`
	Pagination   Pagination                  `json:"pagination"`
}

// SystemWalletTransactionResponse 系统钱包流水响应模型
type SystemWalletTransactionResponse struct {
	ID              int64                 `json:"id"`
	Type            model.TransactionType `json:"type"`
	Amount          string                `json:"amount"`
	Description     string                `json:"description"`
	TransferBy      model.TransferBy      `json:"transferBy"`
	RelatedDonation *int64                `json:"relatedDonation"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// SystemWalletResponse 系统钱包响应
type SystemWalletResponse struct {
	Balance      string                            `json:"balance"`
	Transactions []SystemWalletTransactionResponse `json:"transactions"`
	Pagination   Pagination                        `json:"pagination"`
}

// 转换函数

// ToUserResponse 将用户数据库模型转换为响应模型
func ToUserResponse(user *model.UserModel) UserResponse {
	return UserResponse{
		ID:             user.Id,
		Email:          user.Email,
		Phone:          user.Phone,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Role:           user.Role,
		IsVerifiedSyed: user.IsVerifiedSyed,
		Country:        user.Country,
		State:          user.State,
		City:           user.City,
		WithdrawMethod: user.WithdrawMethod,
		AccountTitle:   user.AccountTitle,
		AccountNumber:  user.AccountNumber,
		BankName:       user.BankName,
		Language:       user.Language,
		CreatedAt:      user.CreatedAt,
	}
}

// ToAppealResponse 将申请数据库模型转换为响应模型
func ToAppealResponse(appeal *model.AppealModel) AppealResponse {
	return AppealResponse{
		ID:                appeal.Id,
		Title:             appeal.Title,
		Description:       appeal.Description,
		Category:          appeal.Category,
		AmountRequested:   appeal.Amount.StringFixed(2),
		IsMonthly:         appeal.IsMonthly,
		MonthsRequired:    appeal.MonthsRequired,
		Status:            appeal.Status,
		IsUrgent:          appeal.IsUrgent,
		CreatedBy:         appeal.CreatedById,
		Beneficiary:       appeal.BeneficiaryId,
		IsDonorLinked:     appeal.IsDonorLinked(),
		FulfillmentSource: appeal.FulfillmentSource(),
		ApprovedBy:        appeal.ApprovedById,
		ApprovedAt:        appeal.ApprovedAt,
		RejectedBy:        appeal.RejectedById,
		RejectedAt:        appeal.RejectedAt,
		RejectionReason:   appeal.RejectionReason,
		CancelledBy:       appeal.CancelledById,
		CancelledAt:       appeal.CancelledAt,
		FulfilledAt:       appeal.FulfilledAt,
		ExpiryDate:        appeal.ExpiryDate,
		CreatedAt:         appeal.CreatedAt,
		UpdatedAt:         appeal.UpdatedAt,
	}
}

// ToAppealResponseList 将申请数据库模型列表转换为响应模型列表
func ToAppealResponseList(appeals []model.AppealModel) []AppealResponse {
	result := make([]AppealResponse, len(appeals))
	for i, appeal := range appeals {
		result[i] = ToAppealResponse(&appeal)
	}
	return result
}

// ToDonationResponse 将捐赠数据库模型转换为响应模型
func ToDonationResponse(donation *model.DonationModel) DonationResponse {
	return DonationResponse{
		ID:            donation.Id,
		Donor:         donation.DonorId,
		Amount:        donation.Amount.StringFixed(2),
		Currency:      donation.Currency,
		DonationType:  donation.DonationType,
		Appeal:        donation.AppealId,
		Note:          donation.Note,
		PaymentMethod: donation.PaymentMethod,
		TransactionID: donation.TransactionId,
		ReceiptURL:    donation.ReceiptURL,
		CreatedAt:     donation.CreatedAt,
	}
}

// ToDonationResponseList 将捐赠数据库模型列表转换为响应模型列表
func ToDonationResponseList(donations []model.DonationModel) []DonationResponse {
	result := make([]DonationResponse, len(donations))
	for i, donation := range donations {
		result[i] = ToDonationResponse(&donation)
	}
	return result
}

// ToWalletTransactionResponse 将钱包流水数据库模型转换为响应模型
func ToWalletTransactionResponse(record *model.WalletTransactionModel) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:          record.Id,
		Type:        record.Type,
		Amount:      record.Amount.StringFixed(2),
		Appeal:      record.AppealId,
		Donor:       record.DonorId,
		Description: record.Description,
		TransferBy:  record.TransferBy,
		CreatedAt:   record.CreatedAt,
	}
}

// ToWalletTransactionResponseList 将钱包流水数据库模型列表转换为响应模型列表
func ToWalletTransactionResponseList(records []model.WalletTransactionModel) []WalletTransactionResponse {
	result := make([]WalletTransactionResponse, len(records))
	for i, record := range records {
		result[i] = ToWalletTransactionResponse(&record)
	}
	return result
}

// ToSystemWalletTransactionResponse 将系统钱包流水数据库模型转换为响应模型
func ToSystemWalletTransactionResponse(record *model.SystemWalletTransactionModel) SystemWalletTransactionResponse {
	return SystemWalletTransactionResponse{
		ID:              record.Id,
		Type:            record.Type,
		Amount:          record.Amount.StringFixed(2),
		Description:     record.Description,
		TransferBy:      record.TransferBy,
		RelatedDonation: record.RelatedDonationId,
		CreatedAt:       record.CreatedAt,
	}
}

// ToSystemWalletTransactionResponseList 将系统钱包流水数据库模型列表转换为响应模型列表
func ToSystemWalletTransactionResponseList(records []model.SystemWalletTransactionModel) []SystemWalletTransactionResponse {
	result := make([]SystemWalletTransactionResponse, len(records))
	for i, record := range records {
		result[i] = ToSystemWalletTransactionResponse(&record)
	}
	return result
}
