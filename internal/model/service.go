package model

import "time"

// Service represents a bookable offering published by a provider.  Each
// service belongs to exactly one provider (its creator) and references
// a category.  The availability flag is a storefront signal toggled by
// the provider; it does not by itself block reservation creation.
//
// Fields:
//  ID            – primary key identifier.
//  ProviderID    – owning provider (users.id).
//  CategoryID    – category the service is listed under.
//  Title         – short title shown in listings.
//  Description   – long-form description.
//  PriceCents    – price in cents.
//  IsAvailable   – whether the provider currently offers the service.
//  ConditionText – free-text terms and conditions set by the provider.
//  ImageURL      – optional image URL (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Service struct {
    ID            uint64    // services.id
    ProviderID    uint64    // services.provider_id
    CategoryID    uint64    // services.category_id
    Title         string    // services.title
    Description   string    // services.description
    PriceCents    uint32    // services.price_cents
    IsAvailable   bool      // services.is_available
    ConditionText string    // services.condition_text
    ImageURL      *string   // services.image_url (nullable)
    CreatedAt     time.Time // services.created_at
    UpdatedAt     time.Time // services.updated_at
}

// Category represents a row in the `categories` table.  Services
// reference a category for browsing and filtering.
//
// Fields:
//  ID   – numeric identifier of the category.
//  Name – unique category name.
type Category struct {
    ID   uint64 // categories.id
    Name string // categories.name
}
