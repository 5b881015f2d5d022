package view

//go:generate templ generate

// DeletePrompt is the question shown before a student is deleted.
const DeletePrompt = "Are you sure you want to delete this student?"

const (
	editIcon   = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M11 4H4a2 2 0 0 0-2 2v14a2 2 0 0 0 2 2h14a2 2 0 0 0 2-2v-7"></path><path d="M18.5 2.5a2.121 2.121 0 0 1 3 3L12 15l-4 1 1-4 9.5-9.5z"></path></svg>`
	deleteIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><polyline points="3 6 5 6 21 6"></polyline><path d="M19 6v14a2 2 0 0 1-2 2H7a2 2 0 0 1-2-2V6m3 0V4a2 2 0 0 1 2-2h4a2 2 0 0 1 2 2v2"></path></svg>`
)

const styles = `
:root { --primary-color: #4338ca; --text-color: #1f2937; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: var(--text-color); margin: 0; background: #f9fafb; }
.container { max-width: 1100px; margin: 2rem auto; padding: 0 1rem; }
.header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 1.5rem; }
table { width: 100%; border-collapse: collapse; background: white; }
th, td { padding: 0.75rem; border-bottom: 1px solid #e5e7eb; text-align: left; }
.avatar { width: 32px; height: 32px; background: #e0e7ff; color: #4338ca; border-radius: 50%; display: inline-flex; align-items: center; justify-content: center; font-weight: 600; font-size: 0.8rem; margin-right: 0.5rem; }
.chip { padding: 0.2rem 0.6rem; border-radius: 999px; background: #f3f4f6; }
.chip-gpa { background: #dcfce7; }
.btn { padding: 0.5rem 1rem; border: 1px solid #d1d5db; border-radius: 6px; background: white; cursor: pointer; }
.btn-primary { background: var(--primary-color); color: white; }
.btn[disabled] { opacity: 0.5; cursor: not-allowed; }
.btn-icon { background: none; border: none; cursor: pointer; }
.pagination { display: flex; gap: 0.5rem; justify-content: center; margin-top: 1rem; }
.notice { background: #fef2f2; color: #991b1b; padding: 0.75rem; margin-bottom: 1rem; border-radius: 6px; }
.modal-overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; }
.modal { background: white; padding: 1.5rem; border-radius: 8px; width: 420px; }
.modal label { display: block; margin-top: 0.75rem; }
.modal input { width: 100%; padding: 0.5rem; box-sizing: border-box; }
.alert { background: #fef2f2; color: #991b1b; padding: 0.75rem; border-radius: 6px; }
.alert small { display: block; margin-top: 0.25rem; }
`
