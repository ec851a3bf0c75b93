package domain

import "github.com/supabase-community/supabase-go"

// SupabaseClient wraps access to a configured Supabase project.
type SupabaseClient interface {
	Initialize() error
	DB() *supabase.Client
}
