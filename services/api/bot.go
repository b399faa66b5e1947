package api

import (
	"net/http"

	"farmbot-backend/services/fishingbot"
)

func (h *handler) botStatus(w http.ResponseWriter, r *http.Request) {
	respondData(w, h.bot.State())
}

// botStart accepts an optional config patch applied before the bot starts.
func (h *handler) botStart(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 0 {
		var patch fishingbot.ConfigPatch
		if err := decodeBody(r, &patch); err != nil {
			respondValidation(w, err.Error())
			return
		}
		h.bot.UpdateConfig(patch)
	}

	if err := h.bot.Start(); err != nil {
		respondValidation(w, err.Error())
		return
	}
	respondData(w, h.bot.State())
}

func (h *handler) botStop(w http.ResponseWriter, r *http.Request) {
	h.bot.Stop()
	respondData(w, h.bot.State())
}

func (h *handler) botPause(w http.ResponseWriter, r *http.Request) {
	if err := h.bot.Pause(); err != nil {
		respondValidation(w, err.Error())
		return
	}
	respondData(w, h.bot.State())
}

func (h *handler) botResume(w http.ResponseWriter, r *http.Request) {
	if err := h.bot.Resume(); err != nil {
		respondValidation(w, err.Error())
		return
	}
	respondData(w, h.bot.State())
}

func (h *handler) botConfig(w http.ResponseWriter, r *http.Request) {
	var patch fishingbot.ConfigPatch
	if err := decodeBody(r, &patch); err != nil {
		respondValidation(w, err.Error())
		return
	}
	h.bot.UpdateConfig(patch)
	respondData(w, h.bot.State().Config)
}
