package services

import (
	"errors"
	"log"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"artist-marketplace-server/database"
	"artist-marketplace-server/models"
	"artist-marketplace-server/types"
)

// ContractService manages the thin contract records that gate booking
// completion. Generation and e-signing happen with an external collaborator;
// here we track the status and the hosted document.
type ContractService struct {
	uploads       *UploadService
	notifications *NotificationService
}

// NewContractService creates a new contract service
func NewContractService(uploads *UploadService, notifications *NotificationService) *ContractService {
	return &ContractService{uploads: uploads, notifications: notifications}
}

// IssueDraft creates the contract draft for a booking that has reached
// booked. Idempotent: an existing contract is returned unchanged.
func (cs *ContractService) IssueDraft(bookingID uint) (*models.Contract, error) {
	var existing models.Contract
	err := database.DB.Where("booking_id = ?", bookingID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		return nil, err
	}

	contract := &models.Contract{
		BookingID: bookingID,
		Status:    models.ContractStatusDraft,
	}
	if err := database.DB.Create(contract).Error; err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("contract_status", models.ContractStatusDraft).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Contract %s drafted for booking %d", contract.ContractNumber, bookingID)
	cs.notifications.Notify(booking.ClientID, models.NotificationTypeContract,
		"Your engagement contract is ready to sign", NotificationRef{BookingID: &bookingID})

	return contract, nil
}

// Get returns the contract for a booking; only a party may read it.
func (cs *ContractService) Get(bookingID, callerID uint) (*models.Contract, error) {
	booking, contract, err := cs.load(bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(callerID) {
		return nil, types.NewForbidden("you are not a party to this booking")
	}
	return contract, nil
}

// AttachDocument uploads the contract document (artist-side) and stores its
// hosted URL on both the contract and the booking.
func (cs *ContractService) AttachDocument(bookingID, callerID uint, file multipart.File, filename string) (*models.Contract, error) {
	booking, contract, err := cs.load(bookingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.ArtistID {
		return nil, types.NewForbidden("only the artist attaches the contract document")
	}
	if contract.Status != models.ContractStatusDraft {
		return nil, types.NewInvalidTransition("document can only be attached to a draft contract")
	}

	url, err := cs.uploads.UploadDocument(file, filename)
	if err != nil {
		log.Printf("❌ Contract upload failed for booking %d: %v", bookingID, err)
		return nil, err
	}

	if err := database.DB.Model(contract).Update("document_url", url).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("contract_url", url).Error; err != nil {
		return nil, err
	}

	cs.notifications.Notify(booking.ClientID, models.NotificationTypeContract,
		"The contract document is available", NotificationRef{BookingID: &bookingID, ContractURL: url})

	contract.DocumentURL = url
	return contract, nil
}

// Sign marks a draft contract as signed by the client.
func (cs *ContractService) Sign(bookingID, callerID uint) (*models.Contract, error) {
	return cs.resolve(bookingID, callerID, models.ContractStatusSigned,
		"The contract has been signed")
}

// Reject marks a draft contract as rejected by the client.
func (cs *ContractService) Reject(bookingID, callerID uint) (*models.Contract, error) {
	return cs.resolve(bookingID, callerID, models.ContractStatusRejected,
		"The contract was rejected")
}

func (cs *ContractService) resolve(bookingID, callerID uint, target models.ContractStatus, message string) (*models.Contract, error) {
	booking, contract, err := cs.load(bookingID)
	if err != nil {
		return nil, err
	}
	if callerID != booking.ClientID {
		return nil, types.NewForbidden("only the client signs or rejects the contract")
	}
	if contract.Status != models.ContractStatusDraft {
		return nil, types.NewInvalidTransition("the contract is no longer a draft")
	}

	updates := map[string]interface{}{"status": target}
	if target == models.ContractStatusSigned {
		now := time.Now()
		updates["signed_at"] = now
	}

	// Same check-and-set shape as booking transitions: the draft
	// precondition is part of the write.
	result := database.DB.Model(&models.Contract{}).
		Where("id = ? AND status = ?", contract.ID, models.ContractStatusDraft).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, types.NewInvalidTransition("contract changed state concurrently, please retry")
	}

	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("contract_status", target).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Contract %s on booking %d → %s", contract.ContractNumber, bookingID, target)
	cs.notifications.Notify(booking.ArtistID, models.NotificationTypeContract,
		message, NotificationRef{BookingID: &bookingID})

	contract.Status = target
	return contract, nil
}

func (cs *ContractService) load(bookingID uint) (*models.Booking, *models.Contract, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, types.NewNotFound("booking not found")
		}
		return nil, nil, err
	}

	var contract models.Contract
	if err := database.DB.Where("booking_id = ?", bookingID).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, types.NewNotFound("no contract exists for this booking")
		}
		return nil, nil, err
	}

	return &booking, &contract, nil
}
