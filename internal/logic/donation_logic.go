package logic

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrDonationNotFound 捐赠记录不存在
	ErrDonationNotFound = errors.New("捐赠记录不存在")
	// ErrNotDonor 非捐赠者角色
	ErrNotDonor = errors.New("only users with role donor can create donations")
	// ErrDonationConfirmed 捐赠已确认入账
	ErrDonationConfirmed = errors.New("donation already confirmed")
)

// DonationLogic 捐赠业务逻辑
type DonationLogic struct {
	db           *gorm.DB
	systemWallet *SystemWalletLogic
	minAmount    decimal.Decimal
}

// NewDonationLogic 创建捐赠业务逻辑
func NewDonationLogic(db *gorm.DB, minAmount int64) *DonationLogic {
	return &DonationLogic{
		db:           db,
		systemWallet: NewSystemWalletLogic(db),
		minAmount:    decimal.NewFromInt(minAmount),
	}
}

// CreateDonation 创建捐赠记录
// 只有donor角色可以捐赠；指定申请时该申请必须处于approved状态（仅提交时校验）
func (d *DonationLogic) CreateDonation(donor *model.UserModel, donation *model.DonationModel) error {
	if !donor.IsDonor() {
		return ErrNotDonor
	}
	donation.DonorId = donor.Id

	if donation.Amount.LessThan(d.minAmount) {
		return model.ValidationError{
			"amount": fmt.Sprintf("Minimum donation amount is %s PKR.", d.minAmount.StringFixed(0)),
		}
	}

	if donation.AppealId != nil {
		var appeal model.AppealModel
		if err := d.db.First(&appeal, *donation.AppealId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ValidationError{"appeal": "Appeal not found."}
			}
			return fmt.Errorf("获取申请失败: %w", err)
		}
		if appeal.Status != model.AppealStatusApproved {
			return model.ValidationError{"appeal": "Appeal must be approved to receive donations."}
		}
		donation.DonationType = model.DonationTypeAppealSpecific
	}

	if donation.Currency == "" {
		donation.Currency = "PKR"
	}
	if donation.DonationType == "" {
		donation.DonationType = model.DonationTypeMawalat
	}
	if donation.TransactionId == "" {
		donation.TransactionId = uuid.NewString()
	}

	if err := d.db.Create(donation).Error; err != nil {
		return fmt.Errorf("创建捐赠记录失败: %w", err)
	}

	logger.Info("Donation %d created by donor %d: %s %s",
		donation.Id, donor.Id, donation.Amount.StringFixed(2), donation.Currency)
	return nil
}

// GetDonation 获取捐赠详情
func (d *DonationLogic) GetDonation(id int64) (*model.DonationModel, error) {
	var donation model.DonationModel
	if err := d.db.First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("获取捐赠详情失败: %w", err)
	}
	return &donation, nil
}

// GetDonations 获取捐赠列表
// donor角色只能看到自己的记录，管理员和Shura可以看全部
func (d *DonationLogic) GetDonations(requester *model.UserModel, page, pageSize int) ([]model.DonationModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := d.db.Model(&model.DonationModel{})
	if requester.IsDonor() {
		query = query.Where("donor_id = ?", requester.Id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠总数失败: %w", err)
	}

	var donations []model.DonationModel
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&donations).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取捐赠列表失败: %w", err)
	}
	return donations, total, nil
}

// ConfirmDonation 确认捐赠入账：将捐赠金额计入系统钱包
// 捐赠创建时不会自动入账，入账是独立的管理操作；重复确认会被拒绝
func (d *DonationLogic) ConfirmDonation(id int64, actor *model.UserModel) (decimal.Decimal, error) {
	donation, err := d.GetDonation(id)
	if err != nil {
		return decimal.Zero, err
	}
	// 重复确认由入账事务在系统钱包行锁内检查
	return d.systemWallet.AddToSystemWallet(donation.Amount, &donation.Id, actor)
}
