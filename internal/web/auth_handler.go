package web

import (
	"net/http"

	"CommunityDirectory/internal/core/domain"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ch, err := h.auth.Signup(r.Context(), req.Phone, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"message":              "OTP sent to your email for verification.",
		"ref":                  ch.Ref,
		"email":                ch.Email,
		"requiresVerification": true,
	})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Ref == "" && req.Contact == "" {
		writeMessage(w, http.StatusBadRequest, false, "User reference and OTP are required.")
		return
	}
	ref, err := h.auth.VerifyContact(r.Context(), req.Ref, req.Contact, req.OTP, domain.OTPPurpose(req.Type))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"message": "OTP verified successfully!", "ref": ref})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ch, err := h.auth.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, envelope{
		"message":              "OTP sent. Check your email.",
		"ref":                  ch.Ref,
		"email":                ch.Email,
		"requiresVerification": true,
	})
}

func (h *Handler) LoginAfterVerify(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.CompleteLogin(r.Context(), req.Ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, res.Token)
	writeOK(w, envelope{
		"message": "Login successful!",
		"token":   res.Token,
		"user":    newUserView(res.User, nil),
	})
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req refRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	purpose := domain.OTPPurpose(req.Type)
	if purpose == "" {
		purpose = domain.PurposeEmail
	}
	if err := h.auth.ResendOTP(r.Context(), req.Ref, purpose); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "OTP resent to your "+string(purpose)+".")
}

// Register completes the profile of the logged-in user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t := domain.OccupationType(req.OccupationType)
	occ, err := domain.DecodeOccupation(t, req.raw(t))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.reg.CompleteProfile(r.Context(), user.ID, req.profile(), occ); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Registration completed successfully!")
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, envelope{"loggedIn": false})
		return
	}
	writeJSON(w, http.StatusOK, envelope{"loggedIn": true, "user": newUserView(user, nil)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFrom(r.Context()); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, true, "Logged out successfully.")
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "If an account with that email exists, an OTP has been sent.")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Password reset successfully! You can now login with your new password.")
}
