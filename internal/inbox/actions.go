package inbox

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/mail-organizer/internal/api"
	"github.com/nhle/mail-organizer/internal/model"
)

// Sync pulls new mail from every connected provider in parallel. It does
// nothing while a sync is running or when no provider is connected.
func (d *Dashboard) Sync() tea.Cmd {
	if d.syncing || d.userID == 0 || d.user == nil {
		return nil
	}
	sources := d.user.ConnectedSources()
	if len(sources) == 0 {
		return nil
	}
	d.syncing = true
	b, id, max := d.backend, d.userID, d.syncMaxResults

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		synced := make([]int, len(sources))
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range sources {
			g.Go(func() error {
				n, err := b.Sync(gctx, id, src, max)
				if err != nil {
					return fmt.Errorf("syncing %s: %w", src, err)
				}
				synced[i] = n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return SyncDoneMsg{UserID: id, Err: err}
		}

		total := 0
		for _, n := range synced {
			total += n
		}
		return SyncDoneMsg{UserID: id, Synced: total}
	}
}

func (d *Dashboard) handleSync(msg SyncDoneMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	d.syncing = false
	if msg.Err != nil {
		d.log.Error().Err(msg.Err).Msg("sync failed")
		d.notify(model.NoticeError, "동기화 실패: %v", msg.Err)
		return nil
	}
	d.notify(model.NoticeInfo, "%d개의 새 메일을 동기화했습니다.", msg.Synced)
	d.list.setOffset(0)
	return tea.Batch(d.loadList(), d.loadCounts())
}

// Classify runs AI classification over the current provider scope.
func (d *Dashboard) Classify() tea.Cmd {
	if d.classifying || d.userID == 0 {
		return nil
	}
	d.classifying = true
	b, id := d.backend, d.userID
	req := api.ClassifyRequest{Source: d.list.query.Source}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		resp, err := b.Classify(ctx, id, req)
		if err != nil {
			return ClassifyDoneMsg{UserID: id, Err: err}
		}
		n := 0
		if resp != nil {
			n = resp.Classified
		}
		return ClassifyDoneMsg{UserID: id, Classified: n}
	}
}

func (d *Dashboard) handleClassify(msg ClassifyDoneMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	d.classifying = false
	if msg.Err != nil {
		d.log.Error().Err(msg.Err).Msg("classification failed")
		d.notify(model.NoticeError, "분류 실패: %v", msg.Err)
		return nil
	}
	d.notify(model.NoticeInfo, "%d개의 메일이 분류되었습니다.", msg.Classified)
	return tea.Batch(d.loadList(), d.loadCounts())
}

// CanApplyLabels reports whether the labels control is shown: only while
// the Gmail filter is selected.
func (d *Dashboard) CanApplyLabels() bool {
	return d.list.query.Source == model.FilterGmail
}

// ApplyLabels mirrors the classified messages of the current page as Gmail
// labels. Without any classified message no request is made.
func (d *Dashboard) ApplyLabels() tea.Cmd {
	if d.applyingLabels || d.userID == 0 || !d.CanApplyLabels() {
		return nil
	}
	ids := d.list.ClassifiedIDs()
	if len(ids) == 0 {
		d.notify(model.NoticeError, "분류된 메일이 없습니다. 먼저 AI 분류를 실행하세요.")
		return nil
	}
	d.applyingLabels = true
	b, id := d.backend, d.userID

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		n, err := b.ApplyLabels(ctx, id, ids)
		return LabelsAppliedMsg{UserID: id, Applied: n, Err: err}
	}
}

func (d *Dashboard) handleLabels(msg LabelsAppliedMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	d.applyingLabels = false
	if msg.Err != nil {
		d.log.Error().Err(msg.Err).Msg("applying labels failed")
		d.notify(model.NoticeError, "라벨 적용 실패: %v", msg.Err)
		return nil
	}
	d.notify(model.NoticeInfo, "%d개의 Gmail 라벨이 적용되었습니다.", msg.Applied)
	return nil
}

// StartEdit opens the category picker for mailID.
func (d *Dashboard) StartEdit(mailID int64) {
	d.editingMailID = mailID
}

// CancelEdit closes the category picker.
func (d *Dashboard) CancelEdit() {
	d.editingMailID = 0
}

// UpdateCategory submits a correction of classificationID to category.
// The loaded copies of mailID are patched only after the backend accepts.
func (d *Dashboard) UpdateCategory(classificationID int64, category string, mailID int64) tea.Cmd {
	if d.userID == 0 || classificationID == 0 || category == "" {
		return nil
	}
	b, id := d.backend, d.userID

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := b.UpdateClassification(ctx, id, classificationID, category)
		return CategoryUpdatedMsg{UserID: id, MailID: mailID, Category: category, Err: err}
	}
}

func (d *Dashboard) handleCategoryUpdated(msg CategoryUpdatedMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	if msg.Err != nil {
		d.log.Error().Err(msg.Err).Int64("mail_id", msg.MailID).Msg("correction failed")
		d.notify(model.NoticeError, "수정 실패: %v", msg.Err)
		return nil
	}
	d.applyCorrection(msg.MailID, msg.Category)
	return tea.Batch(d.loadCounts(), d.loadFeedback())
}

// applyCorrection patches the list entry and the open detail of mailID and
// closes the inline editor.
func (d *Dashboard) applyCorrection(mailID int64, category string) {
	d.list.patch(mailID, category)
	if d.detail != nil && d.detail.ID == mailID {
		next := *d.detail
		next.Classification = next.Classification.Corrected(category)
		d.detail = &next
	}
	d.editingMailID = 0
}

// SelectMail opens the full message for a loaded summary.
func (d *Dashboard) SelectMail(mailID int64) tea.Cmd {
	if d.userID == 0 {
		return nil
	}
	m, ok := d.list.Find(mailID)
	if !ok {
		return nil
	}
	d.detailSeq++
	d.detailLoading = true
	seq, b, id := d.detailSeq, d.backend, d.userID

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		detail, err := b.MessageDetail(ctx, id, m.Source, m.ID)
		return DetailLoadedMsg{Seq: seq, Detail: detail, Err: err}
	}
}

func (d *Dashboard) handleDetail(msg DetailLoadedMsg) {
	if msg.Seq != d.detailSeq {
		return
	}
	d.detailLoading = false
	if msg.Err != nil || msg.Detail == nil {
		d.log.Warn().Err(msg.Err).Msg("loading message detail")
		d.notify(model.NoticeError, "메일을 불러올 수 없습니다.")
		return
	}
	d.detail = msg.Detail
}

// CloseDetail returns to the list. A detail fetch still in flight is
// ignored when it lands.
func (d *Dashboard) CloseDetail() {
	d.detailSeq++
	d.detailLoading = false
	d.detail = nil
	d.editingMailID = 0
}

// PickUp starts moving a loaded message.
func (d *Dashboard) PickUp(mailID int64) bool {
	if d.dropping {
		return false
	}
	m, ok := d.list.Find(mailID)
	if !ok {
		return false
	}
	d.drag.pick(PayloadFor(m))
	return true
}

// Hover highlights category as the drop target. Anything that is not a
// drop target clears the highlight.
func (d *Dashboard) Hover(category string) {
	if !d.counts.IsDropTarget(category) {
		category = ""
	}
	d.drag.hover(category)
}

// CancelDrag abandons the gesture without side effects.
func (d *Dashboard) CancelDrag() {
	d.drag.cancel()
}

// Drop releases the picked-up message onto the highlighted category and
// runs the drop saga.
func (d *Dashboard) Drop() tea.Cmd {
	payload, target, ok := d.drag.release()
	if !ok || d.userID == 0 || d.dropping {
		return nil
	}
	d.dropping = true
	id := d.userID
	saga := NewDropSaga(d.backend, id, d.list.query, payload, target, d.log)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return DropDoneMsg{UserID: id, Result: saga.Run(ctx)}
	}
}

func (d *Dashboard) handleDrop(msg DropDoneMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	d.dropping = false
	res := msg.Result
	if res.Err != nil {
		d.notify(model.NoticeError, "분류 실패: %v", res.Err)
		return tea.Batch(d.loadList(), d.loadCounts())
	}

	// The refetched page goes in first so the correction lands on top of it.
	// A page for a filter the user has since left is reloaded instead.
	var reload tea.Cmd
	if res.Page != nil {
		if res.Query == d.list.query {
			d.list.replace(res.Page)
		} else {
			reload = d.loadList()
		}
	}
	if res.Corrected {
		d.applyCorrection(res.MailID, res.Category)
		return tea.Batch(reload, d.loadCounts(), d.loadFeedback())
	}
	return tea.Batch(reload, d.loadCounts())
}

// OpenNaver shows the Naver connect form.
func (d *Dashboard) OpenNaver() {
	d.naver.Open()
}

// CloseNaver hides the form and clears its fields.
func (d *Dashboard) CloseNaver() {
	if d.naver.Submitting() {
		return
	}
	d.naver.Close()
}

// ConnectNaver submits the typed Naver credentials. With a Verifier the
// credentials are first checked against the IMAP server.
func (d *Dashboard) ConnectNaver(email, password string) tea.Cmd {
	if d.userID == 0 || d.naver.Submitting() {
		return nil
	}
	d.naver.SetCredentials(email, password)
	if !d.naver.CanSubmit() {
		return nil
	}
	d.naver.submitting = true
	b, v, id := d.backend, d.verifier, d.userID

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if v != nil {
			if err := v.Verify(ctx, email, password); err != nil {
				return NaverLinkedMsg{UserID: id, Err: err}
			}
		}
		return NaverLinkedMsg{UserID: id, Err: b.ConnectNaver(ctx, id, email, password)}
	}
}

func (d *Dashboard) handleNaverLinked(msg NaverLinkedMsg) tea.Cmd {
	if msg.UserID != d.userID {
		return nil
	}
	d.naver.submitting = false
	if msg.Err != nil {
		d.log.Error().Err(msg.Err).Msg("naver connect failed")
		d.notify(model.NoticeError, "네이버 연결 실패: %v", msg.Err)
		return nil
	}
	d.notify(model.NoticeInfo, "네이버 메일이 연결되었습니다.")
	d.naver.Close()
	return tea.Batch(d.loadUser(), d.loadCounts())
}
