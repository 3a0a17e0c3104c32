package mapper

import (
	"papers-store-backend/internal/features/account/models"
)

const (
	MsgNotFound     = "User or paper not found"
	MsgAlreadyOwned = "You have already purchased this paper"
	MsgNotPurchased = "You have not purchased this paper"
)

func ToPurchaseResponse(r *models.PurchaseResult) models.PurchaseResponse {
	switch r.Outcome {
	case models.PurchaseNotFound:
		return models.PurchaseResponse{Success: false, Message: MsgNotFound}
	case models.PurchaseAlreadyOwned:
		return models.PurchaseResponse{Success: false, Message: MsgAlreadyOwned}
	case models.PurchasePaymentRequired:
		return models.PurchaseResponse{Success: true, RequiresPayment: boolPtr(true), RequiredStars: r.RequiredStars}
	default:
		return models.PurchaseResponse{Success: true, RequiresPayment: boolPtr(false)}
	}
}

func ToAccessResponse(o models.AccessOutcome) models.AccessResponse {
	switch o {
	case models.AccessGranted:
		return models.AccessResponse{Success: true}
	case models.AccessNotPurchased:
		return models.AccessResponse{Success: false, Message: MsgNotPurchased}
	default:
		return models.AccessResponse{Success: false, Message: MsgNotFound}
	}
}

func boolPtr(b bool) *bool {
	return &b
}
