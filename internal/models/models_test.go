package models

import (
	"math"
	"testing"
	"time"
)

func TestDriverProfileApplyRating(t *testing.T) {
	profile := &DriverProfile{Rating: DefaultDriverRating, TotalTrips: 0}

	profile.ApplyRating(80)
	profile.IncrementTrips()
	if profile.Rating != 80 {
		t.Fatalf("first trip rating = %v, want 80", profile.Rating)
	}

	profile.ApplyRating(100)
	profile.IncrementTrips()
	if profile.Rating != 90 {
		t.Fatalf("second trip rating = %v, want 90", profile.Rating)
	}

	profile.ApplyRating(60)
	profile.IncrementTrips()
	if math.Abs(profile.Rating-80) > 1e-9 {
		t.Fatalf("third trip rating = %v, want 80", profile.Rating)
	}
	if profile.TotalTrips != 3 {
		t.Fatalf("total trips = %d, want 3", profile.TotalTrips)
	}
}

func TestDriverProfileComplete(t *testing.T) {
	profile := &DriverProfile{}
	if profile.Complete() {
		t.Fatal("empty profile reported complete")
	}

	profile.PhoneNumber = "+996700123456"
	profile.DriverLicenseNumber = "DL123456"
	if profile.Complete() {
		t.Fatal("profile without license category reported complete")
	}

	profile.DriverLicenseCategory = "B"
	if !profile.Complete() {
		t.Fatal("filled profile reported incomplete")
	}
}

func TestGuestProfileComplete(t *testing.T) {
	profile := &GuestProfile{}
	if profile.Complete() {
		t.Fatal("empty profile reported complete")
	}

	profile.PhoneNumber = "+996700123456"
	if profile.Complete() {
		t.Fatal("profile without birth date reported complete")
	}

	birthDate := time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC)
	profile.BirthDate = &birthDate
	if !profile.Complete() {
		t.Fatal("filled profile reported incomplete")
	}
}

func TestProfileForRole(t *testing.T) {
	if _, ok := ProfileForRole(UserRoleGuest).(*GuestProfile); !ok {
		t.Error("guest role did not yield a guest profile")
	}
	if _, ok := ProfileForRole(UserRoleDriver).(*DriverProfile); !ok {
		t.Error("driver role did not yield a driver profile")
	}
	if ProfileForRole(UserRoleAdmin) != nil {
		t.Error("admin role yielded a profile")
	}
}

func TestValidFuelType(t *testing.T) {
	for _, ft := range []FuelType{FuelTypePetrol, FuelTypeDiesel, FuelTypeGas, FuelTypeElectric, FuelTypeHybrid} {
		if !ValidFuelType(ft) {
			t.Errorf("%q rejected", ft)
		}
	}
	if ValidFuelType("kerosene") {
		t.Error("kerosene accepted")
	}
}

func TestVehicleFullName(t *testing.T) {
	v := &Vehicle{Make: "Toyota", Model: "Camry", Year: 2019}
	if got := v.FullName(); got != "Toyota Camry 2019" {
		t.Fatalf("FullName = %q", got)
	}
}

func TestUserRoleHelpers(t *testing.T) {
	u := &User{FirstName: "Aibek", LastName: "Usenov", Role: UserRoleDriver}
	if u.FullName() != "Aibek Usenov" {
		t.Errorf("FullName = %q", u.FullName())
	}
	if !u.IsDriver() || u.IsGuest() {
		t.Error("role helpers disagree with driver role")
	}
}
